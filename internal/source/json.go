package source

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// documentSchema describes the JSON catalog. Referential integrity is left to the
// catalog so that errors can name the offending book.
const documentSchema = `{
  "type": "object",
  "required": ["books", "authors", "genres"],
  "properties": {
    "books": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "author", "genres"],
        "properties": {
          "id":          {"type": "string", "minLength": 1},
          "title":       {"type": "string"},
          "author":      {"type": "string"},
          "genres":      {"type": "array", "items": {"type": "string"}},
          "image":       {"type": "string"},
          "description": {"type": "string"},
          "published":   {"type": "string"}
        }
      }
    },
    "authors": {"type": "object", "additionalProperties": {"type": "string"}},
    "genres":  {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
})

// JSONLoader reads a catalog document from a JSON file.
type JSONLoader struct {
	path   string
	logger *slog.Logger
}

// NewJSONLoader creates a loader for the JSON file at path.
func NewJSONLoader(path string, logger *slog.Logger) *JSONLoader {
	return &JSONLoader{path: path, logger: logger}
}

// Load reads, shape-checks and decodes the file.
func (l *JSONLoader) Load(_ context.Context) (*Data, error) {
	raw, err := os.ReadFile(l.path) //#nosec G304 -- catalog path comes from configuration
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeConfiguration, "read catalog %s", l.path)
	}
	return l.decode(raw)
}

func (l *JSONLoader) decode(raw []byte) (*Data, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "decode catalog")
	}

	l.logger.Debug("catalog document decoded",
		"path", l.path,
		"books", len(doc.Books),
		"authors", len(doc.Authors),
		"genres", len(doc.Genres),
	)
	return doc.data()
}

// validateDocument checks the document shape, reporting every violation at once.
func validateDocument(raw []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "compile catalog schema")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return errors.Wrap(err, errors.CodeConfiguration, "catalog is not valid JSON")
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return errors.Configurationf("catalog does not match schema: %s", strings.Join(problems, "; ")).
		WithDetails(problems)
}
