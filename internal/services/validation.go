package services

import (
	"fmt"
	"regexp"

	"github.com/criticdb/backend/internal/models"
)

// reservedUsername is the routing sentinel for the self-scoped account
// endpoint; no account may claim it
const reservedUsername = "me"

const (
	maxUsernameLength = 150
	maxEmailLength    = 254
	maxNameLength     = 256
	maxSlugLength     = 50
)

// usernameRegex validates the allowed username character class
var usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// slugRegex validates category and genre slugs
var slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// validateUsername checks the username character class, length and the
// reserved sentinel
func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty: %w", models.ErrValidation)
	}
	if len(username) > maxUsernameLength {
		return fmt.Errorf("username cannot exceed %d characters: %w", maxUsernameLength, models.ErrValidation)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username %q contains invalid characters: %w", username, models.ErrValidation)
	}
	if username == reservedUsername {
		return fmt.Errorf("username %q is reserved: %w", reservedUsername, models.ErrValidation)
	}
	return nil
}

// validateEmail checks email format and length
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty: %w", models.ErrValidation)
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters: %w", maxEmailLength, models.ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %w", models.ErrValidation)
	}
	return nil
}

// validateNameAndSlug checks the shared name/slug constraints of categories
// and genres
func validateNameAndSlug(name, slug string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty: %w", models.ErrValidation)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("name cannot exceed %d characters: %w", maxNameLength, models.ErrValidation)
	}
	if slug == "" {
		return fmt.Errorf("slug cannot be empty: %w", models.ErrValidation)
	}
	if len(slug) > maxSlugLength {
		return fmt.Errorf("slug cannot exceed %d characters: %w", maxSlugLength, models.ErrValidation)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("slug %q contains invalid characters: %w", slug, models.ErrValidation)
	}
	return nil
}

// normalizePage clamps paging parameters to sane defaults
func normalizePage(page, count int) (int, int) {
	if page < 1 {
		page = 1
	}
	if count < 1 || count > 100 {
		count = 20
	}
	return page, count
}
