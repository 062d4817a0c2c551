package models

// Title represents a reviewable work
type Title struct {
	ID          int
	Name        string
	Year        int
	Description string
	CategoryID  *int
}

// TitleResponse represents the read view of a title, including the average
// review score and resolved category/genre objects
type TitleResponse struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Rating      *float64  `json:"rating"`
	Description string    `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
}

// CreateTitleRequest represents a title creation request body; category and
// genres are referenced by slug
type CreateTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

// UpdateTitleRequest represents a partial update of a title
type UpdateTitleRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genres      []string `json:"genre"`
}
