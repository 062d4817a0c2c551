package models

import "time"

// Review is a scored write-up of a title. Each author may leave at most one
// review per title; the pair (title, author) is unique in storage.
type Review struct {
	ID             int       `json:"id"`
	TitleID        int       `json:"-"`
	AuthorID       int       `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	Score          int       `json:"score"`
	PubDate        time.Time `json:"pub_date"`
}

// CreateReviewRequest represents a review creation request body; title and
// author come from the URL path and the access token
type CreateReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

// UpdateReviewRequest represents a partial update of a review
type UpdateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}
