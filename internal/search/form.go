package search

import (
	"context"
	"slices"

	"github.com/UnknownOlympus/locator/internal/models"
)

const (
	addressFieldName   = "address"
	addressPlaceholder = "address or zip code"
	categoryFieldName  = "category"
	categoryEmptyLabel = "Select Category"
)

// Field is a text input exposed by the search form.
type Field struct {
	Name        string `json:"name"`
	Placeholder string `json:"placeholder,omitempty"`
}

// CategoryField is the optional category dropdown.
type CategoryField struct {
	Name        string   `json:"name"`
	EmptyString string   `json:"emptyString"`
	Options     []string `json:"options"`
}

// FormDescriptor lists the inputs a search form should expose for a view.
// CategoryOptions is nil when no dropdown should be shown.
type FormDescriptor struct {
	AddressField    Field          `json:"addressField"`
	CategoryOptions *CategoryField `json:"categoryOptions,omitempty"`
	Extra           []Field        `json:"extra,omitempty"`
}

// FormHook may adjust a descriptor after the base derivation.
type FormHook func(ctx context.Context, form *FormDescriptor, view models.LocatorView)

// Describer derives search form descriptors and runs registered hooks.
type Describer struct {
	hooks []FormHook
}

// NewDescriber creates a Describer. Hooks run in the order given.
func NewDescriber(hooks ...FormHook) *Describer {
	return &Describer{hooks: hooks}
}

// Register appends a hook.
func (d *Describer) Register(hook FormHook) {
	d.hooks = append(d.hooks, hook)
}

// Describe builds the descriptor for a view.
//
// The address input is always present. The category dropdown is offered when at
// least one category exists and the view is not locked to exactly one category;
// its options are the distinct category names in name order.
func (d *Describer) Describe(
	ctx context.Context,
	view models.LocatorView,
	categories []models.Category,
) FormDescriptor {
	form := FormDescriptor{
		AddressField: Field{Name: addressFieldName, Placeholder: addressPlaceholder},
	}

	if len(categories) > 0 && len(view.Categories) != 1 {
		form.CategoryOptions = &CategoryField{
			Name:        categoryFieldName,
			EmptyString: categoryEmptyLabel,
			Options:     categoryNames(categories),
		}
	}

	for _, hook := range d.hooks {
		hook(ctx, &form, view)
	}

	return form
}

func categoryNames(categories []models.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	slices.Sort(names)

	return slices.Compact(names)
}
