package source

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/errors"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteLoader reads the catalog from a SQLite database.
type SQLiteLoader struct {
	path   string
	logger *slog.Logger
}

// NewSQLiteLoader creates a loader for the database at path.
func NewSQLiteLoader(path string, logger *slog.Logger) *SQLiteLoader {
	return &SQLiteLoader{path: path, logger: logger}
}

// OpenDB opens a SQLite database for writing, creating it if needed, and applies the
// catalog schema.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}
	return db, nil
}

// openReadOnly opens an existing catalog database without creating or migrating it.
func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Load reads every table, keeping books in stored position order. The database must
// already exist; it is opened read-only.
func (l *SQLiteLoader) Load(ctx context.Context) (*Data, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Configurationf("catalog %s not found", l.path)
		}
		return nil, errors.Wrapf(err, errors.CodeConfiguration, "stat catalog %s", l.path)
	}
	if info.IsDir() {
		return nil, errors.Configurationf("catalog %s is a directory", l.path)
	}

	db, err := openReadOnly(l.path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeConfiguration, "open catalog %s", l.path)
	}
	defer db.Close()

	authors, err := readNames(ctx, db, "SELECT id, name FROM authors")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "read authors")
	}
	genres, err := readNames(ctx, db, "SELECT id, name FROM genres")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "read genres")
	}
	bookGenres, err := readBookGenres(ctx, db)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "read book genres")
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, author_id, image, description, published
		FROM books ORDER BY position, id`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "read books")
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var r bookRecord
		if err := rows.Scan(&r.ID, &r.Title, &r.Author, &r.Image, &r.Description, &r.Published); err != nil {
			return nil, errors.Wrap(err, errors.CodeConfiguration, "scan book")
		}
		r.Genres = bookGenres[r.ID]
		b, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeConfiguration, "iterate books")
	}

	l.logger.Debug("catalog database read",
		"path", l.path,
		"books", len(books),
		"authors", len(authors),
		"genres", len(genres),
	)
	return &Data{Books: books, Authors: authors, Genres: genres}, nil
}

func readNames(ctx context.Context, db *sql.DB, query string) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func readBookGenres(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT book_id, genre_id FROM book_genres ORDER BY book_id, position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var bookID, genreID string
		if err := rows.Scan(&bookID, &genreID); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], genreID)
	}
	return out, rows.Err()
}

// WriteSQLite stores data into the database at path, replacing any existing catalog
// rows in a single transaction.
func WriteSQLite(ctx context.Context, path string, data *Data) error {
	db, err := OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"book_genres", "books", "genres", "authors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //#nosec G202 -- fixed table names
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for id, name := range data.Authors {
		if _, err := tx.ExecContext(ctx, "INSERT INTO authors (id, name) VALUES (?, ?)", id, name); err != nil {
			return fmt.Errorf("insert author %s: %w", id, err)
		}
	}
	for id, name := range data.Genres {
		if _, err := tx.ExecContext(ctx, "INSERT INTO genres (id, name) VALUES (?, ?)", id, name); err != nil {
			return fmt.Errorf("insert genre %s: %w", id, err)
		}
	}

	for pos, b := range data.Books {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO books (id, position, title, author_id, image, description, published)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID, pos, b.Title, b.AuthorID, b.Image, b.Description, formatPublished(b.Published))
		if err != nil {
			return fmt.Errorf("insert book %s: %w", b.ID, err)
		}
		for gpos, g := range b.GenreIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO book_genres (book_id, genre_id, position) VALUES (?, ?, ?)",
				b.ID, g, gpos)
			if err != nil {
				return fmt.Errorf("insert genre %s for book %s: %w", g, b.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	// Leave a single self-contained file so the read-only loader needs no -wal or -shm.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=DELETE"); err != nil {
		return fmt.Errorf("reset journal mode: %w", err)
	}
	return nil
}

func formatPublished(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
