package virtual

import "errors"

var (
	// ErrDuplicateKey is returned when two items in one update share an identity.
	ErrDuplicateKey = errors.New("virtual: duplicate item key")

	// ErrMissingKey is returned when a materialized element does not expose
	// the data key it was rendered for.
	ErrMissingKey = errors.New("virtual: element is missing its data key")

	// ErrIncompleteRect is returned when a manual layout rectangle lacks a
	// usable width or height.
	ErrIncompleteRect = errors.New("virtual: incomplete item rectangle")

	// ErrUnknownKey is returned when a scroll target does not name a current item.
	ErrUnknownKey = errors.New("virtual: unknown item key")

	// ErrNoSource is returned when an update omits the identity or kind function.
	ErrNoSource = errors.New("virtual: source requires Identity and Kind")
)
