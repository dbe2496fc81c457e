package domain

// Genre is a category books can be filed under. A book may have several.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Author is the person credited for a book.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
