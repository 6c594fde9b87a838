// # internal/engine/introspect/compact.go
package introspect

import "fmt"

// DefaultMinGroup is the smallest indexed-sibling run length that gets
// collapsed.
const DefaultMinGroup = 4

// Compact returns an independent copy of tree in which every maximal
// contiguous run of indexed siblings of length >= minGroup is replaced by
// three nodes: the first member, one collapsed summary of the interior
// members, and the last member. Shorter runs and non-indexed siblings pass
// through unchanged, in original order. The source tree is never modified.
func Compact(tree *Node, minGroup int) *Node {
	if tree == nil {
		return nil
	}
	if minGroup <= 0 {
		minGroup = DefaultMinGroup
	}
	return compactNode(tree.Clone(), minGroup)
}

func compactNode(node *Node, minGroup int) *Node {
	// Children first, so nested indexed runs are compacted before the parent
	// examines its own sibling sequence.
	for i, child := range node.Children {
		node.Children[i] = compactNode(child, minGroup)
	}
	if len(node.Children) == 0 {
		return node
	}

	compacted := make([]*Node, 0, len(node.Children))
	i := 0
	for i < len(node.Children) {
		child := node.Children[i]
		if child.Index == nil {
			compacted = append(compacted, child)
			i++
			continue
		}

		j := i
		for j < len(node.Children) && node.Children[j].Index != nil {
			j++
		}
		run := node.Children[i:j]
		// A run needs a non-empty interior to summarize; with minGroup 2 a
		// run of exactly 2 has none and passes through unchanged.
		if len(run) >= minGroup && len(run) > 2 {
			compacted = append(compacted, run[0])
			compacted = append(compacted, collapseRun(node.Path, run[1:len(run)-1]))
			compacted = append(compacted, run[len(run)-1])
		} else {
			compacted = append(compacted, run...)
		}
		i = j
	}

	node.Children = compacted
	return node
}

// collapseRun folds the strictly-interior members of an indexed run into one
// summary node. Member subtree structure is discarded; only the full subtree
// totals and the union of tags survive.
func collapseRun(parentPath string, members []*Node) *Node {
	start := *members[0].Index
	end := *members[len(members)-1].Index

	class := members[0].Class
	for _, member := range members[1:] {
		if member.Class != class {
			class = MixedClassName
			break
		}
	}

	var paramTotal, bufferTotal Aggregate
	tagSets := make([][]string, 0, len(members))
	for _, member := range members {
		paramTotal = paramTotal.add(member.Parameters.Total)
		bufferTotal = bufferTotal.add(member.Buffers.Total)
		tagSets = append(tagSets, member.Tags)
	}

	startCopy, endCopy := start, end
	return &Node{
		Name:       fmt.Sprintf("%d..%d", start, end),
		Path:       fmt.Sprintf("%s.[%d-%d]", parentPath, start, end),
		Class:      class,
		Kind:       KindCollapsed,
		Collapsed:  true,
		Repeat:     len(members),
		IndexStart: &startCopy,
		IndexEnd:   &endCopy,
		Tags:       unionTags(tagSets...),
		Parameters: TensorStats{Self: paramTotal, Total: paramTotal},
		Buffers:    TensorStats{Self: bufferTotal, Total: bufferTotal},
		Children:   []*Node{},
	}
}
