package source

import (
	"context"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// YAMLLoader reads a catalog document from a YAML file. The shape matches the JSON format.
type YAMLLoader struct {
	path   string
	logger *slog.Logger
}

// NewYAMLLoader creates a loader for the YAML file at path.
func NewYAMLLoader(path string, logger *slog.Logger) *YAMLLoader {
	return &YAMLLoader{path: path, logger: logger}
}

// Load reads and decodes the file.
func (l *YAMLLoader) Load(_ context.Context) (*Data, error) {
	raw, err := os.ReadFile(l.path) //#nosec G304 -- catalog path comes from configuration
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeConfiguration, "read catalog %s", l.path)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "decode catalog")
	}

	l.logger.Debug("catalog document decoded",
		"path", l.path,
		"books", len(doc.Books),
	)
	return doc.data()
}
