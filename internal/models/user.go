package models

// Role is the closed set of user roles
type Role string

// User role constants
const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User represents a user account in the system
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Bio         string `json:"bio"`
	Role        Role   `json:"role"`
	IsSuperuser bool   `json:"-"`
	// CodeVersion is bumped on every signup so previously issued
	// confirmation codes stop validating.
	CodeVersion int64 `json:"-"`
}

// AnonymousUser is the actor attached to requests that carry no valid token
var AnonymousUser = &User{}

// IsAnonymous reports whether the user is the unauthenticated sentinel
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator reports whether the user carries the moderator role
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// SignUpRequest represents a signup request body
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignUpResponse echoes the accepted identity back; the confirmation code
// itself is only ever delivered by email
type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest represents a confirmation-code exchange request body
type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse represents the public view of a user account
type UserResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`
}

// CreateUserRequest represents an admin request to create a user
type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      Role   `json:"role"`
}

// UpdateUserRequest represents a partial update of a user account.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *Role   `json:"role"`
}
