// # internal/engine/zoo/registry_test.go
package zoo

import (
	"sort"
	"testing"

	"layerscope/internal/core/errors"
	"layerscope/internal/engine/introspect"
)

func TestRegistry_ArchitecturesSorted(t *testing.T) {
	ids := Default().Architectures()
	if len(ids) == 0 {
		t.Fatal("default registry is empty")
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("architecture ids not sorted: %v", ids)
	}
}

func TestRegistry_LookupUnknown(t *testing.T) {
	_, err := Default().Lookup("does-not-exist")
	if err == nil {
		t.Fatal("expected error for unknown architecture")
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("expected not-found code, got %v", err)
	}
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	spec := Spec{ID: "x", Build: buildCausalLM}
	if err := r.Register(spec); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(spec); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if err := r.Register(Spec{ID: "", Build: buildCausalLM}); err == nil {
		t.Error("expected empty id to be rejected")
	}
	if err := r.Register(Spec{ID: "y"}); err == nil {
		t.Error("expected nil builder to be rejected")
	}
}

func TestRegistry_BuildOverrides(t *testing.T) {
	m, cfg, _, err := Default().Build("causal-lm-mini", BuildOptions{
		DType:     "float16",
		NumLayers: 2,
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cfg.DType != "float16" {
		t.Errorf("dtype override not applied: %q", cfg.DType)
	}
	if cfg.NumLayers != 2 {
		t.Errorf("layer override not applied: %d", cfg.NumLayers)
	}

	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	blocks := findNode(tree, "model.transformer.h")
	if blocks == nil {
		t.Fatal("block list missing from tree")
	}
	if len(blocks.Children) != 2 {
		t.Errorf("expected 2 decoder blocks, got %d", len(blocks.Children))
	}
}

func TestRegistry_BuildAllArchitectures(t *testing.T) {
	for _, id := range Default().Architectures() {
		m, cfg, _, err := Default().Build(id, BuildOptions{})
		if err != nil {
			t.Errorf("%s: build failed: %v", id, err)
			continue
		}
		tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
		if err != nil {
			t.Errorf("%s: walk failed: %v", id, err)
			continue
		}
		if tree.Parameters.Total.Count == 0 {
			t.Errorf("%s: no parameters in tree", id)
		}
		if cfg.DType == "" {
			t.Errorf("%s: sanitized config missing dtype", id)
		}
	}
}

func TestTextEncoder_ParameterAccounting(t *testing.T) {
	m, cfg, changes, err := Default().Build("text-encoder-tiny", BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(changes) == 0 {
		t.Log("defaults were already complete")
	}

	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	words := findNode(tree, "model.embeddings.word_embeddings")
	if words == nil {
		t.Fatal("word embeddings missing")
	}
	wantWords := cfg.VocabSize * cfg.HiddenSize
	if words.Parameters.Self.Count != wantWords {
		t.Errorf("word embedding count = %d, want %d", words.Parameters.Self.Count, wantWords)
	}

	// position_ids is an int64 buffer of shape [1, max_positions].
	embeddings := findNode(tree, "model.embeddings")
	if embeddings == nil {
		t.Fatal("embeddings missing")
	}
	if embeddings.Buffers.Self.Count != cfg.MaxPositions {
		t.Errorf("embeddings buffer count = %d, want %d", embeddings.Buffers.Self.Count, cfg.MaxPositions)
	}
	if embeddings.Buffers.Self.Trainable != 0 {
		t.Error("buffers must never be trainable")
	}
}

func TestCausalLM_HeadLeftUntied(t *testing.T) {
	m, cfg, _, err := Default().Build("causal-lm-mini", BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	head := findNode(tree, "model.lm_head")
	if head == nil {
		t.Fatal("lm_head missing")
	}
	want := cfg.VocabSize * cfg.HiddenSize
	if head.Parameters.Self.Count != want {
		t.Errorf("head count = %d, want %d", head.Parameters.Self.Count, want)
	}
	if head.Parameters.Self.Trainable != want {
		t.Error("untied head weight should be trainable")
	}
	hasHeadTag := false
	for _, tag := range head.Tags {
		if tag == "head" {
			hasHeadTag = true
		}
	}
	if !hasHeadTag {
		t.Errorf("lm_head not tagged as head: %v", head.Tags)
	}
}

func TestConvClassifier_BatchNormBuffers(t *testing.T) {
	m, _, _, err := Default().Build("conv-classifier-tiny", BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	bn := findNode(tree, "model.features.0.bn")
	if bn == nil {
		t.Fatal("first batch norm missing")
	}
	// running_mean + running_var (32 each) + scalar num_batches_tracked.
	if bn.Buffers.Self.Count != 32+32+1 {
		t.Errorf("batch norm buffer count = %d, want 65", bn.Buffers.Self.Count)
	}
	if bn.Kind != introspect.KindLeaf {
		t.Errorf("batch norm should be a leaf, got %q", bn.Kind)
	}
}

func TestSeq2Seq_DecoderHasCrossAttention(t *testing.T) {
	m, _, _, err := Default().Build("seq2seq-small", BuildOptions{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}
	cross := findNode(tree, "model.decoder.layers.0.cross_attention")
	if cross == nil {
		t.Fatal("cross attention missing from decoder block")
	}
	if cross.Parameters.Total.Count == 0 {
		t.Error("cross attention projections carry no parameters")
	}
	enc := findNode(tree, "model.encoder.layers.0.cross_attention")
	if enc != nil {
		t.Error("encoder blocks must not carry cross attention")
	}
}

func TestBuilders_DTypeFlowsIntoSizes(t *testing.T) {
	f32, _, _, err := Default().Build("causal-lm-mini", BuildOptions{DType: "float32"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	f16, _, _, err := Default().Build("causal-lm-mini", BuildOptions{DType: "float16"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	wide, err := introspect.BuildTree(f32, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatal(err)
	}
	narrow, err := introspect.BuildTree(f16, "model", "model", introspect.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if wide.Parameters.Total.Count != narrow.Parameters.Total.Count {
		t.Error("dtype must not change element counts")
	}
	if wide.Parameters.Total.SizeBytes != 2*narrow.Parameters.Total.SizeBytes {
		t.Errorf("float32 bytes (%d) should be twice float16 bytes (%d)",
			wide.Parameters.Total.SizeBytes, narrow.Parameters.Total.SizeBytes)
	}
}

func findNode(n *introspect.Node, path string) *introspect.Node {
	if n == nil {
		return nil
	}
	if n.Path == path {
		return n
	}
	for i := range n.Children {
		if found := findNode(n.Children[i], path); found != nil {
			return found
		}
	}
	return nil
}
