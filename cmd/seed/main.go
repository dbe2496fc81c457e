// Package main writes a catalog SQLite database, either converted from a JSON or YAML
// catalog file or generated with random books for load testing.
//
// Usage:
//
//	go run ./cmd/seed -in data/catalog.json -out data/catalog.db
//	go run ./cmd/seed -generate 5000 -out data/large.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/slug"
	"github.com/bookconnect/bookconnect-server/internal/source"
)

var (
	in       = flag.String("in", "", "Catalog file to convert (json or yaml)")
	out      = flag.String("out", "catalog.db", "SQLite database to write")
	generate = flag.Int("generate", 0, "Generate this many random books instead of converting")
	seed     = flag.Uint64("seed", 0, "Random seed for -generate (0 picks one from the clock)")
)

func main() {
	flag.Parse()

	ctx := context.Background()

	var data *source.Data
	switch {
	case *generate > 0:
		s := *seed
		if s == 0 {
			s = uint64(time.Now().UnixNano())
		}
		fmt.Printf("Generating %d books (seed %d)\n", *generate, s)
		data = generateCatalog(rand.New(rand.NewPCG(s, s>>1)), *generate)
	case *in != "":
		loader, err := source.Open("", *in, nil)
		if err != nil {
			log.Fatalf("Failed to open catalog: %v", err)
		}
		data, err = loader.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to read catalog: %v", err)
		}
	default:
		log.Fatal("Nothing to do: pass -in <file> or -generate <n>")
	}

	// Refuse to write something the server would reject at startup.
	cat, err := data.Catalog()
	if err != nil {
		log.Fatalf("Catalog is invalid: %v", err)
	}

	if err := source.WriteSQLite(ctx, *out, data); err != nil {
		log.Fatalf("Failed to write database: %v", err)
	}

	fmt.Printf("Wrote %d books, %d authors, %d genres to %s\n",
		cat.Len(), len(data.Authors), len(data.Genres), *out)
}

var (
	firstNames = []string{"Ada", "Bram", "Cora", "Dmitri", "Elif", "Femi", "Greta", "Hiro", "Ines", "Jonas"}
	lastNames  = []string{"Abara", "Brook", "Castell", "Dunmore", "Eskildsen", "Farrow", "Gallo", "Holt"}
	genreNames = []string{"Adventure", "Biography", "Crime", "Fantasy", "History", "Horror", "Poetry", "Romance", "Science Fiction", "Thriller"}
	titleWords = []string{"Night", "River", "Glass", "Empire", "Winter", "Garden", "Machine", "Silence", "Harbor", "Crown", "Ember", "Atlas"}
)

func generateCatalog(rng *rand.Rand, n int) *source.Data {
	authors := make(map[string]string)
	authorIDs := make([]string, 0, len(firstNames)*len(lastNames))
	for _, first := range firstNames {
		for _, last := range lastNames {
			name := first + " " + last
			authorID := slug.ID("a", name)
			authors[authorID] = name
			authorIDs = append(authorIDs, authorID)
		}
	}

	genres := make(map[string]string, len(genreNames))
	genreIDs := make([]string, 0, len(genreNames))
	for _, name := range genreNames {
		genreID := slug.ID("g", name)
		genres[genreID] = name
		genreIDs = append(genreIDs, genreID)
	}

	books := make([]domain.Book, n)
	for i := range n {
		// 1-3 distinct genres per book.
		perm := rng.Perm(len(genreIDs))
		bookGenres := make([]string, 1+rng.IntN(3))
		for j := range bookGenres {
			bookGenres[j] = genreIDs[perm[j]]
		}

		title := fmt.Sprintf("The %s of %s",
			titleWords[rng.IntN(len(titleWords))],
			titleWords[rng.IntN(len(titleWords))])

		books[i] = domain.Book{
			ID:          fmt.Sprintf("b-%05d", i+1),
			Title:       title,
			AuthorID:    authorIDs[rng.IntN(len(authorIDs))],
			GenreIDs:    bookGenres,
			Image:       fmt.Sprintf("https://covers.example.com/%05d.jpg", i+1),
			Description: fmt.Sprintf("<p>%s, volume %d.</p>", title, i+1),
			Published:   time.Date(1900+rng.IntN(125), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC),
		}
	}

	return &source.Data{Books: books, Authors: authors, Genres: genres}
}
