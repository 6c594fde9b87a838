// # internal/engine/model/composite.go
package model

import "strconv"

// Composite is a generic container module with ordered named children and
// directly owned tensors. The zoo assembles every architecture out of these;
// nothing in the introspection core depends on the concrete type.
type Composite struct {
	class    string
	children []NamedModule
	params   []NamedTensor
	buffers  []NamedTensor
}

func NewComposite(class string) *Composite {
	return &Composite{class: class}
}

func (c *Composite) ClassName() string { return c.class }

func (c *Composite) NamedChildren() []NamedModule {
	return append([]NamedModule(nil), c.children...)
}

func (c *Composite) NamedParameters() []NamedTensor {
	return append([]NamedTensor(nil), c.params...)
}

func (c *Composite) NamedBuffers() []NamedTensor {
	return append([]NamedTensor(nil), c.buffers...)
}

// AddChild appends a child, preserving insertion order.
func (c *Composite) AddChild(name string, m Module) *Composite {
	c.children = append(c.children, NamedModule{Name: name, Module: m})
	return c
}

// AddIndexed appends a child named by its position, the way positional
// child lists are addressed.
func (c *Composite) AddIndexed(m Module) *Composite {
	return c.AddChild(strconv.Itoa(len(c.children)), m)
}

func (c *Composite) AddParameter(name string, t Tensor) *Composite {
	c.params = append(c.params, NamedTensor{Name: name, Tensor: t})
	return c
}

func (c *Composite) AddBuffer(name string, t Tensor) *Composite {
	c.buffers = append(c.buffers, NamedTensor{Name: name, Tensor: t})
	return c
}
