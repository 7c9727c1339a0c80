package directory

import "errors"

var (
	// ErrNotFound indicates the account does not exist.
	ErrNotFound = errors.New("directory: account not found")
	// ErrInvalidCredentials indicates an email/password mismatch.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
	// ErrBlocked indicates the account is administratively blocked.
	ErrBlocked = errors.New("directory: account blocked")
	// ErrInactive indicates the account is deactivated.
	ErrInactive = errors.New("directory: account inactive")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("directory: email already registered")
	// ErrInvalidEmail indicates the email fails the format check.
	ErrInvalidEmail = errors.New("directory: invalid email")
	// ErrInvalidAmount indicates a negative or non-finite fee.
	ErrInvalidAmount = errors.New("directory: invalid amount")
	// ErrInvalidRole indicates an unknown account role.
	ErrInvalidRole = errors.New("directory: invalid role")
	// ErrMissingField indicates a required field is empty.
	ErrMissingField = errors.New("directory: missing required field")
	// ErrInvalidStatus indicates an unknown payment standing value.
	ErrInvalidStatus = errors.New("directory: invalid payment status")
)
