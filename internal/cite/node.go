package cite

import (
	"fmt"
	"slices"

	derrors "git.home.luguber.info/inful/citemark/internal/foundation/errors"
)

// Position is a half-open byte range [Start, End) in the parsed source.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered.
func (p Position) Len() int { return p.End - p.Start }

// Node is an immutable citation: one or more items in textual order plus the
// source range they were read from.
type Node struct {
	items []Item
	pos   Position
}

// NewNode freezes a successful match found at offset.
func NewNode(m *Match, offset int) (*Node, error) {
	if m == nil || len(m.Items) == 0 {
		return nil, derrors.InternalError("citation node built from an empty match").
			WithCause(ErrEmptyCitation).
			WithContext("offset", offset).
			Build()
	}
	return &Node{
		items: slices.Clone(m.Items),
		pos:   Position{Start: offset, End: offset + m.Length},
	}, nil
}

// NodeOf builds a node from items that were not read from text, such as
// citations assembled by a program. Its position is zero.
func NodeOf(items ...Item) (*Node, error) {
	if len(items) == 0 {
		return nil, derrors.InternalError("citation node built without items").
			WithCause(ErrEmptyCitation).
			Build()
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, derrors.ValidationError(fmt.Sprintf("citation item %d", i+1)).
				WithCause(err).
				Build()
		}
	}
	return &Node{items: slices.Clone(items)}, nil
}

// Items returns a copy of the items.
func (n *Node) Items() []Item { return slices.Clone(n.items) }

// Len returns the number of items.
func (n *Node) Len() int { return len(n.items) }

// Item returns the i-th item.
func (n *Node) Item(i int) Item { return n.items[i] }

// Position returns the source range of the span.
func (n *Node) Position() Position { return n.pos }

// Keys returns the item keys in order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.items))
	for i, it := range n.items {
		keys[i] = it.Key
	}
	return keys
}
