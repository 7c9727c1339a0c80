package enrollment

import "errors"

var (
	// ErrNotFound indicates the code number does not exist in the pool.
	ErrNotFound = errors.New("enrollment: code not found")
	// ErrDuplicateCode indicates the code number already exists.
	ErrDuplicateCode = errors.New("enrollment: code already exists")
	// ErrInvalidState indicates the code is not in a state that allows the operation.
	ErrInvalidState = errors.New("enrollment: invalid code state")
	// ErrExhausted indicates no available codes remain to draw from.
	ErrExhausted = errors.New("enrollment: no available codes")
	// ErrInvalidAmount indicates a sale price that is not a positive finite number.
	ErrInvalidAmount = errors.New("enrollment: invalid amount")
	// ErrInvalidMethod indicates an unknown payment method.
	ErrInvalidMethod = errors.New("enrollment: invalid payment method")
	// ErrEmptyNumber indicates a blank code suffix on creation.
	ErrEmptyNumber = errors.New("enrollment: empty code number")
	// ErrOwnerNotFound indicates the selling account does not exist.
	ErrOwnerNotFound = errors.New("enrollment: owner account not found")
)
