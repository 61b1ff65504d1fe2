package cite

import (
	"fmt"
	"slices"
	"strings"
)

// Item is one reference inside a citation span.
type Item struct {
	Key            string `json:"key"`
	Prefix         string `json:"prefix,omitempty"`
	Suffix         string `json:"suffix,omitempty"`
	Locator        string `json:"locator,omitempty"`
	SuppressAuthor bool   `json:"suppressAuthor,omitempty"`
}

// Validate reports whether the item can be placed in a Node.
func (it Item) Validate() error {
	if it.Key == "" {
		return fmt.Errorf("%w: key must not be empty", ErrInvalidItem)
	}
	if strings.ContainsAny(it.Key, "\r\n") {
		return fmt.Errorf("%w: key %q contains a line break", ErrInvalidItem, it.Key)
	}
	return nil
}

// Plain reports whether the item is just a key, with no surrounding text.
func (it Item) Plain() bool {
	return it.Prefix == "" && it.Suffix == "" && it.Locator == ""
}

// EqualItems compares two item sequences field by field, in order.
func EqualItems(a, b []Item) bool {
	return slices.Equal(a, b)
}
