package domain

import "strings"

// Any is the sentinel criteria value meaning "no constraint on this field".
const Any = "any"

// FilterCriteria is one search submission.
type FilterCriteria struct {
	Title    string `json:"title"`
	AuthorID string `json:"author"`
	GenreID  string `json:"genre"`
}

// DefaultCriteria matches every book.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Title: "", AuthorID: Any, GenreID: Any}
}

// Normalized trims the id fields and maps blank ids to Any.
// Form selects post their option values as strings, which is also how catalog ids are stored,
// so the comparison stays string-to-string.
func (c FilterCriteria) Normalized() FilterCriteria {
	c.AuthorID = normalizeID(c.AuthorID)
	c.GenreID = normalizeID(c.GenreID)
	return c
}

// IsDefault reports whether the criteria impose no constraint at all.
func (c FilterCriteria) IsDefault() bool {
	n := c.Normalized()
	return n.Title == "" && n.AuthorID == Any && n.GenreID == Any
}

func normalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, Any) {
		return Any
	}
	return id
}
