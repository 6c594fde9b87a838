// # internal/engine/model/meta_test.go
package model

import (
	"sort"
	"testing"
)

func TestNewMetaTensor_Validation(t *testing.T) {
	if _, err := NewMetaTensor("complex128", true, 2, 2); err == nil {
		t.Error("expected error for unknown dtype")
	}
	if _, err := NewMetaTensor("float32", true, 4, -1); err == nil {
		t.Error("expected error for negative dimension")
	}
	mt, err := NewMetaTensor("float16", false, 3, 5)
	if err != nil {
		t.Fatalf("valid tensor rejected: %v", err)
	}
	if mt.Numel() != 15 || mt.ElementSize() != 2 {
		t.Errorf("numel=%d elemsize=%d", mt.Numel(), mt.ElementSize())
	}
	if mt.Trainable() {
		t.Error("learnable flag lost")
	}
}

func TestMetaTensor_ScalarNumel(t *testing.T) {
	scalar := MustMeta("int64", false)
	if scalar.Numel() != 1 {
		t.Errorf("scalar numel = %d, want 1", scalar.Numel())
	}
	if len(scalar.Shape()) != 0 {
		t.Errorf("scalar shape = %v", scalar.Shape())
	}
}

func TestMetaTensor_ShapeIsCopy(t *testing.T) {
	mt := MustMeta("float32", true, 2, 3)
	shape := mt.Shape()
	shape[0] = 99
	if mt.Dims[0] != 2 {
		t.Error("Shape returned the internal slice")
	}
}

func TestDTypes_SortedAndComplete(t *testing.T) {
	dtypes := DTypes()
	if !sort.StringsAreSorted(dtypes) {
		t.Errorf("dtypes not sorted: %v", dtypes)
	}
	found := map[string]bool{}
	for _, d := range dtypes {
		found[d] = true
	}
	for _, want := range []string{"float32", "float16", "bfloat16", "int64", "bool"} {
		if !found[want] {
			t.Errorf("missing dtype %q", want)
		}
	}
}

func TestComposite_OrderAndIndexedNames(t *testing.T) {
	c := NewComposite("Stack")
	c.AddIndexed(NewComposite("Block"))
	c.AddIndexed(NewComposite("Block"))
	c.AddChild("norm", NewComposite("LayerNorm"))

	children := c.NamedChildren()
	if len(children) != 3 {
		t.Fatalf("children = %d", len(children))
	}
	if children[0].Name != "0" || children[1].Name != "1" || children[2].Name != "norm" {
		t.Errorf("names = %q, %q, %q", children[0].Name, children[1].Name, children[2].Name)
	}
}

func TestComposite_AccessorsReturnCopies(t *testing.T) {
	c := NewComposite("M")
	c.AddParameter("weight", MustMeta("float32", true, 2))

	params := c.NamedParameters()
	params[0] = NamedTensor{Name: "clobbered"}
	if c.NamedParameters()[0].Name != "weight" {
		t.Error("NamedParameters returned the internal slice")
	}
}
