// Package source reads the initial catalog from disk. Three formats are supported:
// a JSON document, the same document in YAML, and a SQLite database.
package source

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"
)

// Supported formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

// Data is the raw load contract: ordered books plus id->name tables.
type Data struct {
	Books   []domain.Book
	Authors map[string]string
	Genres  map[string]string
}

// Catalog validates the data and builds the immutable catalog.
func (d *Data) Catalog() (*catalog.Catalog, error) {
	return catalog.Load(d.Books, d.Authors, d.Genres)
}

// Loader produces catalog data from some backing store.
type Loader interface {
	Load(ctx context.Context) (*Data, error)
}

// Open returns a loader for path. An empty format is inferred from the file extension.
func Open(format, path string, logger *slog.Logger) (Loader, error) {
	if path == "" {
		return nil, errors.Configuration("catalog path is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if format == "" {
		format = DetectFormat(path)
	}

	switch format {
	case FormatJSON:
		return NewJSONLoader(path, logger), nil
	case FormatYAML:
		return NewYAMLLoader(path, logger), nil
	case FormatSQLite:
		return NewSQLiteLoader(path, logger), nil
	default:
		return nil, errors.Configurationf("unsupported catalog format %q for %s", format, path)
	}
}

// DetectFormat maps a file extension to a format, or "" when unknown.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return ""
	}
}

// document is the on-disk shape shared by the JSON and YAML formats.
type document struct {
	Books   []bookRecord      `json:"books" yaml:"books"`
	Authors map[string]string `json:"authors" yaml:"authors"`
	Genres  map[string]string `json:"genres" yaml:"genres"`
}

type bookRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Author      string   `json:"author" yaml:"author"`
	Genres      []string `json:"genres" yaml:"genres"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
	Published   string   `json:"published" yaml:"published"`
}

func (r *bookRecord) toDomain() (domain.Book, error) {
	published, err := parsePublished(r.Published)
	if err != nil {
		return domain.Book{}, errors.DataIntegrityf(r.ID, "invalid published date %q", r.Published).WithCause(err)
	}
	return domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		AuthorID:    r.Author,
		GenreIDs:    r.Genres,
		Image:       r.Image,
		Description: r.Description,
		Published:   published,
	}, nil
}

// data converts the document, keeping a missing books list nil so the catalog can
// report it as a configuration error.
func (d *document) data() (*Data, error) {
	out := &Data{Authors: d.Authors, Genres: d.Genres}
	if d.Books == nil {
		return out, nil
	}
	out.Books = make([]domain.Book, 0, len(d.Books))
	for i := range d.Books {
		b, err := d.Books[i].toDomain()
		if err != nil {
			return nil, err
		}
		out.Books = append(out.Books, b)
	}
	return out, nil
}

var publishedLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// parsePublished accepts RFC 3339 timestamps or bare dates. Blank means unknown.
func parsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	var lastErr error
	for _, layout := range publishedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
