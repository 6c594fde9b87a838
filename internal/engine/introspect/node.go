// # internal/engine/introspect/node.go
package introspect

// Aggregate holds elementwise tensor totals for one scope.
type Aggregate struct {
	Count     int64 `json:"count"`
	Trainable int64 `json:"trainable"`
	SizeBytes int64 `json:"size_bytes"`
}

func (a Aggregate) add(b Aggregate) Aggregate {
	return Aggregate{
		Count:     a.Count + b.Count,
		Trainable: a.Trainable + b.Trainable,
		SizeBytes: a.SizeBytes + b.SizeBytes,
	}
}

// TensorStats carries the direct (Self) and whole-subtree (Total) aggregates
// for one tensor family (parameters or buffers). Total.Count >= Self.Count
// always holds.
type TensorStats struct {
	Self  Aggregate `json:"self"`
	Total Aggregate `json:"total"`
}

// TensorDetail is the per-leaf record emitted when detail collection is on.
type TensorDetail struct {
	Name      string  `json:"name"`
	Shape     []int64 `json:"shape"`
	DType     string  `json:"dtype"`
	Numel     int64   `json:"numel"`
	Trainable bool    `json:"trainable"`
}

const (
	KindContainer = "container"
	KindLeaf      = "leaf"
	KindCollapsed = "collapsed"
)

// MixedClassName marks a collapsed group whose members do not share one class.
const MixedClassName = "MixedModules"

// Node is one module in the introspected tree. Trees are pure values: no
// back-references, no sharing across subtrees.
type Node struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Class string `json:"class"`
	// Index is set when Name is purely decimal digits; the compactor uses it
	// to detect repeated-block runs.
	Index *int     `json:"index"`
	Kind  string   `json:"kind"`
	Tags  []string `json:"tags"`

	// Collapsed-run fields, present on kind "collapsed" nodes only.
	Collapsed  bool `json:"collapsed,omitempty"`
	Repeat     int  `json:"repeat,omitempty"`
	IndexStart *int `json:"index_start,omitempty"`
	IndexEnd   *int `json:"index_end,omitempty"`

	Parameters TensorStats `json:"parameters"`
	Buffers    TensorStats `json:"buffers"`

	ParameterDetails []TensorDetail `json:"parameter_details,omitempty"`
	BufferDetails    []TensorDetail `json:"buffer_details,omitempty"`

	Children []*Node `json:"children"`
}

// Clone returns an independent deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if n.Index != nil {
		idx := *n.Index
		out.Index = &idx
	}
	if n.IndexStart != nil {
		v := *n.IndexStart
		out.IndexStart = &v
	}
	if n.IndexEnd != nil {
		v := *n.IndexEnd
		out.IndexEnd = &v
	}
	if n.Tags != nil {
		out.Tags = append([]string{}, n.Tags...)
	}
	out.ParameterDetails = cloneDetails(n.ParameterDetails)
	out.BufferDetails = cloneDetails(n.BufferDetails)
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return &out
}

func cloneDetails(details []TensorDetail) []TensorDetail {
	if details == nil {
		return nil
	}
	out := make([]TensorDetail, len(details))
	for i, d := range details {
		out[i] = d
		out[i].Shape = append([]int64(nil), d.Shape...)
	}
	return out
}
