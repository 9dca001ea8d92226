package repo

import "errors"

var (
	// ErrUserExists is returned by Register when the username is taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned by Verify for an unknown username or
	// a wrong password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingID is returned by Insert when the item carries no id.
	ErrMissingID = errors.New("missing id")
	// ErrNotFound is returned by Update and Delete when no item matches.
	ErrNotFound = errors.New("item not found")
)
