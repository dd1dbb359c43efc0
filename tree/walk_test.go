package tree_test

import (
	"errors"
	"testing"

	"github.com/cuishuai123/presenton/tree"
)

// a
// ├── b
// │   └── d
// └── c
func buildTree() (*tree.Node[string], map[string]*tree.Node[string]) {
	nodes := map[string]*tree.Node[string]{}
	for _, s := range []string{"a", "b", "c", "d"} {
		nodes[s] = tree.NewNode(s)
	}
	nodes["a"].AddChild(nodes["b"]).AddChild(nodes["c"])
	nodes["b"].AddChild(nodes["d"])
	return nodes["a"], nodes
}

func TestWalkDocumentOrder(t *testing.T) {
	root, _ := buildTree()
	var order string
	var depths []int
	err := tree.Walk(root, func(n *tree.Node[string], depth int) error {
		order += n.Payload
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if order != "abdc" {
		t.Errorf("expected pre-order abdc, have %s", order)
	}
	if depths[2] != 2 || depths[3] != 1 {
		t.Errorf("unexpected depths %v", depths)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	root, _ := buildTree()
	var order string
	_ = tree.Walk(root, func(n *tree.Node[string], depth int) error {
		order += n.Payload
		if n.Payload == "b" {
			return tree.SkipChildren
		}
		return nil
	})
	if order != "abc" {
		t.Errorf("expected abc with b pruned, have %s", order)
	}
}

func TestWalkStops(t *testing.T) {
	root, _ := buildTree()
	stop := errors.New("stop")
	err := tree.Walk(root, func(n *tree.Node[string], depth int) error {
		if n.Payload == "d" {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("expected walk to return stop error, got %v", err)
	}
	if tree.Walk[string](nil, nil) != tree.ErrEmptyTree {
		t.Errorf("expected ErrEmptyTree for nil start")
	}
}

func TestSelectAndNumber(t *testing.T) {
	root, nodes := buildTree()
	leaves := tree.Select(root, func(n *tree.Node[string]) bool {
		return n.ChildCount() == 0
	})
	if len(leaves) != 2 || leaves[0].Payload != "d" || leaves[1].Payload != "c" {
		t.Errorf("expected leaves [d c], have %v", leaves)
	}
	if n := tree.Number(root); n != 4 {
		t.Errorf("expected 4 nodes, have %d", n)
	}
	if nodes["c"].Rank != 4 || nodes["d"].Rank != 3 {
		t.Errorf("unexpected ranks c=%d d=%d", nodes["c"].Rank, nodes["d"].Rank)
	}
	if !root.IsAncestorOf(nodes["d"]) || nodes["c"].IsAncestorOf(nodes["d"]) {
		t.Errorf("ancestor relation broken")
	}
	nodes["b"].Isolate()
	if root.ChildCount() != 1 || root.IndexOfChild(nodes["c"]) != 0 {
		t.Errorf("expected b to be removed from root")
	}
}
