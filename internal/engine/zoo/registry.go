// # internal/engine/zoo/registry.go
package zoo

import (
	"fmt"
	"sort"

	"layerscope/internal/core/errors"
	"layerscope/internal/engine/model"
)

// Builder constructs a module graph from a sanitized config.
type Builder func(Config) (model.Module, error)

// Spec describes one registered architecture.
type Spec struct {
	ID       string
	Family   string
	Class    string
	Defaults Config
	Build    Builder
}

// BuildOptions are per-invocation overrides applied before sanitization.
type BuildOptions struct {
	DType     string
	NumLayers int
}

// Registry maps architecture ids to specs.
type Registry struct {
	specs map[string]Spec
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

func (r *Registry) Register(spec Spec) error {
	if spec.ID == "" || spec.Build == nil {
		return errors.New(errors.CodeValidationError, "spec needs an id and a builder")
	}
	if _, exists := r.specs[spec.ID]; exists {
		return errors.New(errors.CodeValidationError, fmt.Sprintf("architecture %q already registered", spec.ID))
	}
	r.specs[spec.ID] = spec
	return nil
}

// Architectures returns all registered ids, sorted for deterministic
// catalog ordering.
func (r *Registry) Architectures() []string {
	ids := make([]string, 0, len(r.specs))
	for id := range r.specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) Lookup(id string) (Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Spec{}, errors.AddContext(
			errors.New(errors.CodeNotFound, "unknown architecture"), errors.CtxArchitecture, id)
	}
	return spec, nil
}

// Build resolves an architecture, applies overrides, sanitizes the config
// and constructs the module graph. The returned config is the sanitized one
// actually used; changes lists every repaired field.
func (r *Registry) Build(id string, opts BuildOptions) (model.Module, Config, []string, error) {
	spec, err := r.Lookup(id)
	if err != nil {
		return nil, Config{}, nil, err
	}

	cfg := spec.Defaults
	if opts.DType != "" {
		cfg.DType = opts.DType
	}
	if opts.NumLayers > 0 {
		cfg.NumLayers = opts.NumLayers
	}

	cfg, changes := Sanitize(cfg)
	m, err := spec.Build(cfg)
	if err != nil {
		return nil, Config{}, nil, errors.AddContext(err, errors.CtxArchitecture, id)
	}
	return m, cfg, changes, nil
}

var defaultRegistry = buildDefaultRegistry()

// Default returns the built-in architecture registry.
func Default() *Registry { return defaultRegistry }

func buildDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range []Spec{
		{
			ID:     "text-encoder-tiny",
			Family: "text-encoder",
			Class:  "TextEncoderModel",
			Defaults: Config{
				DType: "float32", VocabSize: 30522, TypeVocabSize: 2,
				HiddenSize: 128, IntermediateSize: 512,
				NumLayers: 2, NumHeads: 2, MaxPositions: 512,
			},
			Build: buildTextEncoder,
		},
		{
			ID:     "text-encoder-base",
			Family: "text-encoder",
			Class:  "TextEncoderModel",
			Defaults: Config{
				DType: "float32", VocabSize: 30522, TypeVocabSize: 2,
				HiddenSize: 768, IntermediateSize: 3072,
				NumLayers: 12, NumHeads: 12, MaxPositions: 512,
			},
			Build: buildTextEncoder,
		},
		{
			ID:     "causal-lm-mini",
			Family: "causal-lm",
			Class:  "CausalLMModel",
			Defaults: Config{
				DType: "float32", VocabSize: 50257,
				HiddenSize: 256, IntermediateSize: 1024,
				NumLayers: 4, NumHeads: 4, MaxPositions: 1024,
			},
			Build: buildCausalLM,
		},
		{
			ID:     "causal-lm-medium",
			Family: "causal-lm",
			Class:  "CausalLMModel",
			Defaults: Config{
				DType: "float32", VocabSize: 50257,
				HiddenSize: 1024, IntermediateSize: 4096,
				NumLayers: 24, NumHeads: 16, MaxPositions: 1024,
			},
			Build: buildCausalLM,
		},
		{
			ID:     "seq2seq-small",
			Family: "seq2seq",
			Class:  "Seq2SeqModel",
			Defaults: Config{
				DType: "float32", VocabSize: 32128,
				HiddenSize: 512, IntermediateSize: 2048,
				NumLayers: 6, NumHeads: 8, MaxPositions: 512,
				EncoderLayers: 6, DecoderLayers: 6,
			},
			Build: buildSeq2Seq,
		},
		{
			ID:     "conv-classifier-tiny",
			Family: "image-classification",
			Class:  "ConvClassifier",
			Defaults: Config{
				DType: "float32", NumLayers: 4,
				NumChannels: 3, ImageSize: 224, NumLabels: 10,
			},
			Build: buildConvClassifier,
		},
	} {
		if err := r.Register(spec); err != nil {
			panic(err)
		}
	}
	return r
}
