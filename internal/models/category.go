package models

// Category groups titles by kind (book, film, music and so on)
type Category struct {
	ID   int    `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategoryRequest represents a category creation request body
type CreateCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
