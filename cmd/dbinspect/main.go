// Package main loads a catalog source the way the server does and prints what it holds,
// optionally running one search against it.
//
// Usage:
//
//	CATALOG_PATH=data/catalog.db go run ./cmd/dbinspect
//	go run ./cmd/dbinspect -catalog data/catalog.json -title dune -author a-herbert
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bookconnect/bookconnect-server/internal/domain"
	"github.com/bookconnect/bookconnect-server/internal/filter"
	"github.com/bookconnect/bookconnect-server/internal/paging"
	"github.com/bookconnect/bookconnect-server/internal/source"
)

var (
	catalogPath = flag.String("catalog", "", "Catalog file or database (default $CATALOG_PATH)")
	format      = flag.String("format", "", "json, yaml or sqlite (default: from extension)")
	title       = flag.String("title", "", "Title fragment to search for")
	author      = flag.String("author", domain.Any, "Author id")
	genre       = flag.String("genre", domain.Any, "Genre id")
	pages       = flag.Int("pages", 1, "Result pages to print")
)

func main() {
	flag.Parse()

	path := *catalogPath
	if path == "" {
		path = os.Getenv("CATALOG_PATH")
	}

	loader, err := source.Open(*format, path, nil)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	data, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to read catalog: %v", err)
	}
	cat, err := data.Catalog()
	if err != nil {
		log.Fatalf("Catalog is invalid: %v", err)
	}

	fmt.Println("=== Catalog Inspection ===")
	fmt.Println()
	fmt.Printf("Books:   %d\n", cat.Len())
	fmt.Printf("Authors: %d\n", len(data.Authors))
	fmt.Printf("Genres:  %d\n", len(data.Genres))
	fmt.Println()

	perGenre := make(map[string]int)
	for b := range cat.Books() {
		for _, g := range b.GenreIDs {
			perGenre[g]++
		}
	}
	fmt.Println("Books per genre:")
	for _, g := range cat.Genres() {
		fmt.Printf("  %-24s %5d\n", g.Name, perGenre[g.ID])
	}
	fmt.Println()

	criteria := domain.FilterCriteria{Title: *title, AuthorID: *author, GenreID: *genre}.Normalized()
	if criteria.AuthorID != domain.Any && !cat.HasAuthor(criteria.AuthorID) {
		log.Fatalf("Unknown author %q", criteria.AuthorID)
	}
	if criteria.GenreID != domain.Any && !cat.HasGenre(criteria.GenreID) {
		log.Fatalf("Unknown genre %q", criteria.GenreID)
	}

	matches := filter.Apply(criteria, cat)
	fmt.Printf("Search title=%q author=%s genre=%s: %d matches\n",
		criteria.Title, criteria.AuthorID, criteria.GenreID, len(matches))

	pager := paging.New(paging.PageSize)
	pager.Reset(matches)
	for page := 1; page <= *pages && pager.HasMore(); page++ {
		batch, remaining := pager.NextBatch()
		fmt.Printf("\n-- page %d (%d remaining) --\n", page, remaining)
		for _, b := range batch {
			name, _ := cat.AuthorName(b.AuthorID)
			fmt.Printf("  %-10s %-40s %s (%d)\n", b.ID, b.Title, name, b.PublishedYear())
		}
	}
}
