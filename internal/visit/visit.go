// Package visit walks goldmark trees depth first, in preorder, with a
// callback that can prune a subtree or stop the walk.
package visit

import (
	gmast "github.com/yuin/goldmark/ast"
)

// Action tells Walk how to proceed after visiting a node.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota + 1
	// Skip leaves the node's children unvisited.
	Skip
	// Exit stops the whole walk.
	Exit
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Skip:
		return "skip"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Visitor is called once per visited node.
type Visitor func(n gmast.Node) Action

// Walk visits root and its descendants, children left to right. The child
// list of a node is read once, before its first child is visited, so changes
// made by the visitor do not alter the order. Walk returns Exit when the
// visitor stopped the walk and Continue otherwise.
func Walk(root gmast.Node, v Visitor) Action {
	if root == nil {
		return Continue
	}
	switch v(root) {
	case Exit:
		return Exit
	case Skip:
		return Continue
	}
	for _, child := range children(root) {
		if Walk(child, v) == Exit {
			return Exit
		}
	}
	return Continue
}

// WalkKind is Walk with v applied only to nodes of the given kind. Other
// nodes are walked through as if v returned Continue.
func WalkKind(root gmast.Node, kind gmast.NodeKind, v Visitor) Action {
	return Walk(root, func(n gmast.Node) Action {
		if n.Kind() != kind {
			return Continue
		}
		return v(n)
	})
}

func children(n gmast.Node) []gmast.Node {
	out := make([]gmast.Node, 0, n.ChildCount())
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, c)
	}
	return out
}
