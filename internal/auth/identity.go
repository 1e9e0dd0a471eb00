package auth

import "errors"

// ErrUnauthorized is returned when the caller is anonymous or is not the
// owner of the resource being acted on.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the per-request session identity. The zero value is
// anonymous; a value with a username is an authenticated caller.
type Identity struct {
	username string
}

// Anonymous returns the identity of a request with no valid session.
func Anonymous() Identity { return Identity{} }

// Authenticated returns the identity of a logged-in user.
func Authenticated(username string) Identity { return Identity{username: username} }

// Username returns the authenticated username, or "" when anonymous.
func (id Identity) Username() string { return id.username }

// LoggedIn reports whether the identity is authenticated.
func (id Identity) LoggedIn() bool { return id.username != "" }

// Authorize applies the single ownership rule: an operation on a resource
// is permitted iff the caller is authenticated as the resource's owner.
// There are no roles and no admin override.
func Authorize(id Identity, owner string) error {
	if !id.LoggedIn() || id.username != owner {
		return ErrUnauthorized
	}
	return nil
}
