package service

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrNotAllowed = errors.New("not allowed")

	// Session write guards. ErrSessionLocked blocks every line item
	// mutation, including by administrators. ErrSessionClosed is the
	// separate failure for closing a session twice.
	ErrSessionLocked = errors.New("session is closed or past its deadline")
	ErrSessionClosed = errors.New("session is already closed")

	// Validation failures. All are checked before anything is written.
	ErrInvalidPrice     = errors.New("invalid price")
	ErrMissingSelection = errors.New("missing item selection")
	ErrEmptyName        = errors.New("item name must not be empty")
	ErrInvalidDeadline  = errors.New("invalid deadline")
	ErrEmptyTitle       = errors.New("title and restaurant must not be empty")

	ErrBadCredentials   = errors.New("invalid credentials")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmailTaken       = errors.New("account already exists")
	ErrDomainNotAllowed = errors.New("email domain not allowed")
	ErrSelfTarget       = errors.New("cannot target your own account")
)

// IsValidation reports whether err is a locally correctable input
// problem, as opposed to an authorization or state failure.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidPrice, ErrMissingSelection, ErrEmptyName,
		ErrInvalidDeadline, ErrEmptyTitle,
		ErrWeakPassword, ErrPasswordMismatch, ErrEmailTaken, ErrDomainNotAllowed,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
