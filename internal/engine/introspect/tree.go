// # internal/engine/introspect/tree.go
package introspect

import (
	"strconv"

	"layerscope/internal/core/errors"
	"layerscope/internal/engine/model"
)

// Options controls optional per-leaf detail collection during a tree build.
type Options struct {
	IncludeParameterDetails bool
	IncludeBufferDetails    bool
}

// BuildTree walks a module graph and produces the labeled tree with
// bottom-up aggregated totals. name is the module's identifier within its
// parent; path is its fully qualified dotted path (for the root, name and
// path are equal). The walk follows declared children only, in declared
// order.
func BuildTree(m model.Module, name, path string, opts Options) (*Node, error) {
	if m == nil {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "module is nil"), errors.CtxPath, path)
	}

	directParams := m.NamedParameters()
	directBuffers := m.NamedBuffers()

	paramSelf, err := Summarize(directParams)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	bufferSelf, err := Summarize(directBuffers)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	node := &Node{
		Name:       name,
		Path:       path,
		Class:      m.ClassName(),
		Index:      parseIndex(name),
		Kind:       KindContainer,
		Tags:       Classify(m.ClassName(), path),
		Parameters: TensorStats{Self: paramSelf},
		Buffers:    TensorStats{Self: bufferSelf},
		Children:   []*Node{},
	}

	if opts.IncludeParameterDetails {
		details, err := Details(directParams)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, path)
		}
		node.ParameterDetails = details
	}
	if opts.IncludeBufferDetails {
		details, err := Details(directBuffers)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, path)
		}
		node.BufferDetails = details
	}

	for _, child := range m.NamedChildren() {
		childPath := path + "." + child.Name
		childNode, err := BuildTree(child.Module, child.Name, childPath, opts)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}

	if len(node.Children) == 0 {
		node.Kind = KindLeaf
	}

	// Totals are recursively correct by induction: each child total already
	// covers its whole subtree.
	paramTotal := node.Parameters.Self
	bufferTotal := node.Buffers.Self
	for _, child := range node.Children {
		paramTotal = paramTotal.add(child.Parameters.Total)
		bufferTotal = bufferTotal.add(child.Buffers.Total)
	}
	node.Parameters.Total = paramTotal
	node.Buffers.Total = bufferTotal

	return node, nil
}

// parseIndex returns the numeric value of a purely-decimal name, else nil.
func parseIndex(name string) *int {
	if name == "" {
		return nil
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return nil
		}
	}
	idx, err := strconv.Atoi(name)
	if err != nil {
		return nil
	}
	return &idx
}
