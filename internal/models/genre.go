package models

// Genre tags a title; a title may carry several genres
type Genre struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateGenreRequest represents a genre creation request body
type CreateGenreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
