// Package permissions holds the authorization policy functions. Each policy
// is a pure function of the acting user (resolved once per request by the
// auth middleware) and, for object-level checks, the resource's author.
// Anything not explicitly allowed here is denied.
package permissions

import "github.com/criticdb/backend/internal/models"

// CanWriteCatalog reports whether the user may create, update or delete
// titles, categories and genres. Reads are open to everyone.
func CanWriteCatalog(user *models.User) bool {
	if user.IsAnonymous() {
		return false
	}
	return user.IsAdmin() || user.IsSuperuser
}

// CanModerate reports whether the user may edit or delete any review or
// comment regardless of authorship
func CanModerate(user *models.User) bool {
	if user.IsAnonymous() {
		return false
	}
	return user.IsAdmin() || user.IsModerator() || user.IsSuperuser
}

// CanEditOwnedResource reports whether the user may update or delete a review
// or comment written by authorID
func CanEditOwnedResource(user *models.User, authorID int) bool {
	if user.IsAnonymous() {
		return false
	}
	return CanModerate(user) || user.ID == authorID
}

// CanManageUsers reports whether the user may operate on the user collection
// (everything outside the self-scoped "me" endpoint)
func CanManageUsers(user *models.User) bool {
	if user.IsAnonymous() {
		return false
	}
	return user.IsAdmin() || user.IsSuperuser
}
