package billing

import "errors"

// Validation and lookup errors surfaced by the billing store. The handler
// layer matches these with errors.Is and shows the message to the user.
var (
	ErrTitleTooShort     = errors.New("title must be at least 3 characters")
	ErrTitleTooLong      = errors.New("title must be under 50 characters")
	ErrTitleInvalidChars = errors.New("only letters, numbers, spaces, dashes, and underscores allowed")
	ErrDuplicateTitle    = errors.New("a list with this name already exists")

	ErrEmptyItemName   = errors.New("item name can't be empty")
	ErrInvalidPrice    = errors.New("price must be a non-negative number")
	ErrInvalidQuantity = errors.New("quantity must be a non-negative whole number")

	ErrListNotFound = errors.New("list not found")
)

// IsValidation reports whether err is one of the input validation errors
// (as opposed to a not-found lookup).
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrTitleTooShort),
		errors.Is(err, ErrTitleTooLong),
		errors.Is(err, ErrTitleInvalidChars),
		errors.Is(err, ErrDuplicateTitle),
		errors.Is(err, ErrEmptyItemName),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidQuantity):
		return true
	}
	return false
}
