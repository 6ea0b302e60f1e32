package models

// Category is a named tag grouping locations and scoping locator views.
// Names are not unique; lists are sorted by name.
type Category struct {
	ID   int64
	Name string
}
