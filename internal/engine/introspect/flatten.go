// # internal/engine/introspect/flatten.go
package introspect

// FlatNode mirrors a tree node without its children, plus traversal depth
// and the paths of its direct children.
type FlatNode struct {
	Name  string   `json:"name"`
	Path  string   `json:"path"`
	Class string   `json:"class"`
	Index *int     `json:"index"`
	Kind  string   `json:"kind"`
	Tags  []string `json:"tags"`

	Collapsed  bool `json:"collapsed,omitempty"`
	Repeat     int  `json:"repeat,omitempty"`
	IndexStart *int `json:"index_start,omitempty"`
	IndexEnd   *int `json:"index_end,omitempty"`

	Parameters TensorStats `json:"parameters"`
	Buffers    TensorStats `json:"buffers"`

	ParameterDetails []TensorDetail `json:"parameter_details,omitempty"`
	BufferDetails    []TensorDetail `json:"buffer_details,omitempty"`

	Depth    int      `json:"depth"`
	ChildIDs []string `json:"child_ids"`
}

// Edge is one parent-child relationship, keyed by node paths.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// FlatGraph is a derived node-list + edge-list view of a tree. It holds no
// independent state and is recomputed fresh on every call.
type FlatGraph struct {
	Nodes []FlatNode `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

// ModuleCount reports the number of modules in the flattened tree.
func (g *FlatGraph) ModuleCount() int {
	if g == nil {
		return 0
	}
	return len(g.Nodes)
}

// Flatten converts a tree (full or compacted) to flat node/edge form via a
// depth-first pre-order walk: each node before its descendants, each child's
// edges before the next sibling.
func Flatten(tree *Node) *FlatGraph {
	graph := &FlatGraph{}
	if tree == nil {
		return graph
	}
	flattenWalk(tree, 0, graph)
	return graph
}

func flattenWalk(node *Node, depth int, graph *FlatGraph) {
	childIDs := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		childIDs = append(childIDs, child.Path)
	}

	graph.Nodes = append(graph.Nodes, FlatNode{
		Name:             node.Name,
		Path:             node.Path,
		Class:            node.Class,
		Index:            node.Index,
		Kind:             node.Kind,
		Tags:             node.Tags,
		Collapsed:        node.Collapsed,
		Repeat:           node.Repeat,
		IndexStart:       node.IndexStart,
		IndexEnd:         node.IndexEnd,
		Parameters:       node.Parameters,
		Buffers:          node.Buffers,
		ParameterDetails: node.ParameterDetails,
		BufferDetails:    node.BufferDetails,
		Depth:            depth,
		ChildIDs:         childIDs,
	})

	for _, child := range node.Children {
		graph.Edges = append(graph.Edges, Edge{Source: node.Path, Target: child.Path})
		flattenWalk(child, depth+1, graph)
	}
}
