package models

import "time"

// Comment is a free-text reply to a review
type Comment struct {
	ID             int       `json:"id"`
	ReviewID       int       `json:"-"`
	AuthorID       int       `json:"-"`
	AuthorUsername string    `json:"author"`
	Text           string    `json:"text"`
	PubDate        time.Time `json:"pub_date"`
}

// CreateCommentRequest represents a comment creation request body
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// UpdateCommentRequest represents a partial update of a comment
type UpdateCommentRequest struct {
	Text *string `json:"text"`
}
