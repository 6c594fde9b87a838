// # internal/engine/model/model.go
package model

// Tensor is the capability surface the introspection core needs from a
// tensor-like leaf. Implementations only have to describe themselves;
// no data access is ever required.
type Tensor interface {
	Numel() int64
	ElementSize() int
	Shape() []int64
	DType() string
	Trainable() bool
}

// NamedTensor pairs a tensor with its name inside the owning module.
type NamedTensor struct {
	Name   string
	Tensor Tensor
}

// Module is a node in a model's composition hierarchy. NamedChildren,
// NamedParameters and NamedBuffers report direct members only, in the
// module's own declared order — never descendants.
type Module interface {
	ClassName() string
	NamedChildren() []NamedModule
	NamedParameters() []NamedTensor
	NamedBuffers() []NamedTensor
}

type NamedModule struct {
	Name   string
	Module Module
}
