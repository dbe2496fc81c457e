package browse

import (
	"fmt"
	"time"

	"github.com/bookconnect/bookconnect-server/internal/catalog"
	"github.com/bookconnect/bookconnect-server/internal/domain"
)

// NoResultsMessage is shown when a search matches nothing.
const NoResultsMessage = "No results found. Your filters might be too narrow."

// Preview is what one list entry needs to render. Passed by value; holds no references
// back into the catalog.
type Preview struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Author   string `json:"author"`
	Subtitle string `json:"subtitle"` // "Author (year)"
}

// Detail is the expanded view of a selected book.
type Detail struct {
	Preview
	Published   time.Time `json:"published"`
	AuthorID    string    `json:"author_id"`
	Description string    `json:"description"`
	GenreIDs    []string  `json:"genre_ids"`
	Genres      []string  `json:"genres"`
}

// ShowMoreLabel formats the show-more control text for a remaining count.
func ShowMoreLabel(remaining int) string {
	return fmt.Sprintf("Show more (%d)", max(0, remaining))
}

// subtitle mirrors the list's "Author (year)" line; the year is dropped when unknown.
func subtitle(author string, b *domain.Book) string {
	if year := b.PublishedYear(); year != 0 {
		return fmt.Sprintf("%s (%d)", author, year)
	}
	return author
}

func newPreview(b *domain.Book, author string) Preview {
	return Preview{
		ID:       b.ID,
		Title:    b.Title,
		Image:    b.Image,
		Author:   author,
		Subtitle: subtitle(author, b),
	}
}

// previews resolves author names for a batch. Books in a loaded catalog always resolve.
func previews(cat *catalog.Catalog, batch domain.MatchSet) ([]Preview, error) {
	out := make([]Preview, 0, len(batch))
	for i := range batch {
		author, err := cat.AuthorName(batch[i].AuthorID)
		if err != nil {
			return nil, err
		}
		out = append(out, newPreview(&batch[i], author))
	}
	return out, nil
}

func newDetail(cat *catalog.Catalog, b *domain.Book) (Detail, error) {
	author, err := cat.AuthorName(b.AuthorID)
	if err != nil {
		return Detail{}, err
	}
	genres := make([]string, 0, len(b.GenreIDs))
	for _, id := range b.GenreIDs {
		name, err := cat.GenreName(id)
		if err != nil {
			return Detail{}, err
		}
		genres = append(genres, name)
	}
	return Detail{
		Preview:     newPreview(b, author),
		Published:   b.Published,
		AuthorID:    b.AuthorID,
		Description: b.Description,
		GenreIDs:    append([]string(nil), b.GenreIDs...),
		Genres:      genres,
	}, nil
}
