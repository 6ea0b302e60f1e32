package models

import "errors"

var (
	// ErrUnsupportedFilterKey is returned when a filter names a field the store cannot evaluate.
	ErrUnsupportedFilterKey = errors.New("unsupported filter key")
	// ErrInvalidFilterValue is returned when a filter value cannot be compared with its field.
	ErrInvalidFilterValue = errors.New("invalid filter value")
	// ErrInvalidConfiguration is returned when a stored locator configuration is malformed.
	ErrInvalidConfiguration = errors.New("invalid locator configuration")
	// ErrDependencyUnavailable wraps failures of the persistence layer.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrLocatorNotFound is returned when no locator view exists for an id.
	ErrLocatorNotFound = errors.New("locator not found")
)
