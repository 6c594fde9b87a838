// # internal/engine/introspect/summarize.go
package introspect

import (
	"fmt"

	"layerscope/internal/core/errors"
	"layerscope/internal/engine/model"
)

// Summarize reduces an ordered sequence of named tensors to elementwise
// totals. An empty input yields the zero aggregate. A nil tensor is the one
// malformed-input case the core recognizes and aborts on.
func Summarize(tensors []model.NamedTensor) (Aggregate, error) {
	var agg Aggregate
	for _, nt := range tensors {
		if nt.Tensor == nil {
			return Aggregate{}, errors.New(errors.CodeValidationError,
				fmt.Sprintf("tensor %q has no backing description", nt.Name))
		}
		numel := nt.Tensor.Numel()
		agg.Count += numel
		if nt.Tensor.Trainable() {
			agg.Trainable += numel
		}
		agg.SizeBytes += numel * int64(nt.Tensor.ElementSize())
	}
	return agg, nil
}

// Details produces per-leaf records in input order.
func Details(tensors []model.NamedTensor) ([]TensorDetail, error) {
	if len(tensors) == 0 {
		return nil, nil
	}
	out := make([]TensorDetail, 0, len(tensors))
	for _, nt := range tensors {
		if nt.Tensor == nil {
			return nil, errors.New(errors.CodeValidationError,
				fmt.Sprintf("tensor %q has no backing description", nt.Name))
		}
		out = append(out, TensorDetail{
			Name:      nt.Name,
			Shape:     nt.Tensor.Shape(),
			DType:     nt.Tensor.DType(),
			Numel:     nt.Tensor.Numel(),
			Trainable: nt.Tensor.Trainable(),
		})
	}
	return out, nil
}
