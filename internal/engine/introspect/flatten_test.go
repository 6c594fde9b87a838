// # internal/engine/introspect/flatten_test.go
package introspect

import (
	"testing"

	"layerscope/internal/engine/model"
)

func TestFlatten_ShapeAndOrder(t *testing.T) {
	tree := buildStackTree(t, 3, 10)

	graph := Flatten(tree)
	nodes := graph.Nodes
	edges := graph.Edges

	// Count tree nodes directly.
	var count func(n *Node) int
	count = func(n *Node) int {
		total := 1
		for _, child := range n.Children {
			total += count(child)
		}
		return total
	}
	wantNodes := count(tree)

	if len(nodes) != wantNodes {
		t.Errorf("expected %d flat nodes, got %d", wantNodes, len(nodes))
	}
	if len(edges) != wantNodes-1 {
		t.Errorf("expected %d edges, got %d", wantNodes-1, len(edges))
	}

	// Pre-order: root first, every parent before its children.
	if nodes[0].Path != tree.Path {
		t.Errorf("expected root first, got %s", nodes[0].Path)
	}
	position := make(map[string]int, len(nodes))
	for i, n := range nodes {
		position[n.Path] = i
	}
	for _, e := range edges {
		if position[e.Source] >= position[e.Target] {
			t.Errorf("edge %s -> %s violates pre-order", e.Source, e.Target)
		}
	}

	// Every edge target is a non-root node path, exactly once.
	targets := make(map[string]int)
	for _, e := range edges {
		targets[e.Target]++
	}
	for _, n := range nodes[1:] {
		if targets[n.Path] != 1 {
			t.Errorf("node %s should appear exactly once as a target, got %d", n.Path, targets[n.Path])
		}
	}
	if targets[tree.Path] != 0 {
		t.Error("root must not be an edge target")
	}
}

func TestFlatten_DepthAndChildIDs(t *testing.T) {
	tree := buildStackTree(t, 2, 5)
	graph := Flatten(tree)

	byPath := make(map[string]FlatNode)
	for _, n := range graph.Nodes {
		byPath[n.Path] = n
	}

	root := byPath["Model"]
	if root.Depth != 0 {
		t.Errorf("root depth should be 0, got %d", root.Depth)
	}
	if len(root.ChildIDs) != 3 {
		t.Fatalf("expected 3 root child ids, got %v", root.ChildIDs)
	}
	if root.ChildIDs[0] != "Model.embed" || root.ChildIDs[1] != "Model.layers" || root.ChildIDs[2] != "Model.head" {
		t.Errorf("child ids out of order: %v", root.ChildIDs)
	}

	block := byPath["Model.layers.0"]
	if block.Depth != 2 {
		t.Errorf("expected depth 2 for a block, got %d", block.Depth)
	}
	if len(block.ChildIDs) != 0 {
		t.Errorf("leaf should have no child ids, got %v", block.ChildIDs)
	}
}

func TestFlatten_CompactedTree(t *testing.T) {
	tree := buildStackTree(t, 8, 10)
	compact := Compact(tree, 4)

	full := Flatten(tree)
	flat := Flatten(compact)

	if full.ModuleCount() <= flat.ModuleCount() {
		t.Errorf("compaction should shrink the flat view: %d vs %d", full.ModuleCount(), flat.ModuleCount())
	}
	if len(flat.Edges) != flat.ModuleCount()-1 {
		t.Errorf("compacted flat view must keep the tree edge invariant")
	}

	foundCollapsed := false
	for _, n := range flat.Nodes {
		if n.Kind == KindCollapsed {
			foundCollapsed = true
			if len(n.ChildIDs) != 0 {
				t.Error("collapsed flat node must have empty child ids")
			}
		}
	}
	if !foundCollapsed {
		t.Error("expected a collapsed node in the flat view")
	}
}

func TestFlatten_SingleLeaf(t *testing.T) {
	tree, err := BuildTree(model.NewComposite("Identity"), "Identity", "Identity", Options{})
	if err != nil {
		t.Fatalf("BuildTree failed: %v", err)
	}
	graph := Flatten(tree)
	if graph.ModuleCount() != 1 || len(graph.Edges) != 0 {
		t.Errorf("expected 1 node, 0 edges; got %d, %d", graph.ModuleCount(), len(graph.Edges))
	}
}

func TestFlatten_NilTree(t *testing.T) {
	graph := Flatten(nil)
	if graph.ModuleCount() != 0 || len(graph.Edges) != 0 {
		t.Error("nil tree should flatten to an empty graph")
	}
}
