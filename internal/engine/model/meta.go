// # internal/engine/model/meta.go
package model

import (
	"fmt"
	"sort"

	"layerscope/internal/core/errors"
)

// Byte widths for the dtypes the zoo emits. Mirrors the element sizes a
// tensor runtime would report.
var dtypeSizes = map[string]int{
	"float32":  4,
	"float16":  2,
	"bfloat16": 2,
	"float64":  8,
	"int64":    8,
	"int32":    4,
	"int8":     1,
	"uint8":    1,
	"bool":     1,
}

// DTypes returns the supported dtype tags, sorted.
func DTypes() []string {
	out := make([]string, 0, len(dtypeSizes))
	for name := range dtypeSizes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MetaTensor describes a tensor by shape and dtype only. It is the Go
// analogue of an empty-weights ("meta" device) tensor: all statistics are
// derivable, no storage is allocated.
type MetaTensor struct {
	Dims      []int64
	Type      string
	Learnable bool
}

// NewMetaTensor builds a meta tensor, validating the dtype and dimensions.
func NewMetaTensor(dtype string, learnable bool, dims ...int64) (*MetaTensor, error) {
	if _, ok := dtypeSizes[dtype]; !ok {
		return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("unknown dtype %q", dtype))
	}
	for _, d := range dims {
		if d < 0 {
			return nil, errors.New(errors.CodeValidationError, fmt.Sprintf("negative dimension %d", d))
		}
	}
	return &MetaTensor{Dims: append([]int64(nil), dims...), Type: dtype, Learnable: learnable}, nil
}

// MustMeta is NewMetaTensor for statically known-good shapes; it panics on
// invalid input and is intended for the zoo builders and tests.
func MustMeta(dtype string, learnable bool, dims ...int64) *MetaTensor {
	t, err := NewMetaTensor(dtype, learnable, dims...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *MetaTensor) Numel() int64 {
	n := int64(1)
	for _, d := range t.Dims {
		n *= d
	}
	return n
}

func (t *MetaTensor) ElementSize() int {
	return dtypeSizes[t.Type]
}

func (t *MetaTensor) Shape() []int64 {
	return append([]int64(nil), t.Dims...)
}

func (t *MetaTensor) DType() string { return t.Type }

func (t *MetaTensor) Trainable() bool { return t.Learnable }
