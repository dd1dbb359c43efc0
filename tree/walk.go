package tree

import "errors"

// ErrEmptyTree is returned if a walk is started on a nil node.
var ErrEmptyTree = errors.New("cannot walk empty tree")

// SkipChildren may be returned by a visitor to prune the walk below the
// current node.
var SkipChildren = errors.New("skip children")

// Visitor is called for every node of a walk, together with the node's
// depth relative to the start node.
type Visitor[T comparable] func(n *Node[T], depth int) error

// Walk visits a (sub-)tree depth-first in document order (pre-order).
// If visit returns SkipChildren, the node's children are not visited.
// Any other error stops the walk and is returned.
func Walk[T comparable](start *Node[T], visit Visitor[T]) error {
	if start == nil {
		return ErrEmptyTree
	}
	err := walk(start, 0, visit)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk[T comparable](n *Node[T], depth int, visit Visitor[T]) error {
	if err := visit(n, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	for _, ch := range n.Children() {
		if err := walk(ch, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// Select collects all nodes of a (sub-)tree, including the start node,
// for which pred is true. Results are in document order.
func Select[T comparable](start *Node[T], pred func(*Node[T]) bool) []*Node[T] {
	var selection []*Node[T]
	_ = Walk(start, func(n *Node[T], _ int) error {
		if pred(n) {
			selection = append(selection, n)
		}
		return nil
	})
	return selection
}

// Number assigns document-order serials to the Rank of every node,
// starting with 1 at the root. It returns the number of nodes.
func Number[T comparable](root *Node[T]) uint32 {
	var serial uint32
	_ = Walk(root, func(n *Node[T], _ int) error {
		serial++
		n.Rank = serial
		return nil
	})
	return serial
}
