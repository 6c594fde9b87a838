// # internal/engine/zoo/sanitize.go
package zoo

import "layerscope/internal/engine/model"

// Sanitize validates and completes a config, returning a new value plus a
// change log naming every field it touched. The input is never mutated, so
// callers can keep the raw config for the artifact and report the repairs as
// warnings.
func Sanitize(in Config) (Config, []string) {
	cfg := in
	var changes []string

	touch := func(name string) { changes = append(changes, name) }

	if !validDType(cfg.DType) {
		cfg.DType = "float32"
		touch("dtype")
	}
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = 32000
		touch("vocab_size")
	}
	if cfg.TypeVocabSize <= 0 {
		cfg.TypeVocabSize = 2
		touch("type_vocab_size")
	}
	if cfg.HiddenSize <= 0 {
		cfg.HiddenSize = 768
		touch("hidden_size")
	}
	if cfg.IntermediateSize <= 0 {
		cfg.IntermediateSize = cfg.HiddenSize * 4
		touch("intermediate_size")
	}
	if cfg.NumLayers <= 0 {
		cfg.NumLayers = 1
		touch("num_hidden_layers")
	}
	if cfg.NumHeads <= 0 {
		cfg.NumHeads = 1
		touch("num_attention_heads")
	}

	// Head counts must divide the hidden size; shrink to the largest
	// divisor at or below the requested count.
	if fixed := largestDivisorAtMost(cfg.HiddenSize, cfg.NumHeads); fixed != cfg.NumHeads {
		cfg.NumHeads = fixed
		touch("num_attention_heads")
	}
	if cfg.NumKVHeads <= 0 {
		cfg.NumKVHeads = cfg.NumHeads
		touch("num_key_value_heads")
	}
	if fixed := largestDivisorAtMost(cfg.HiddenSize, cfg.NumKVHeads); fixed != cfg.NumKVHeads {
		cfg.NumKVHeads = fixed
		touch("num_key_value_heads")
	}
	if cfg.HeadDim <= 0 {
		cfg.HeadDim = cfg.HiddenSize / cfg.NumHeads
		touch("head_dim")
	}

	if cfg.MaxPositions <= 0 {
		cfg.MaxPositions = 512
		touch("max_position_embeddings")
	}
	if cfg.PadTokenID < 0 {
		cfg.PadTokenID = 0
		touch("pad_token_id")
	}
	if cfg.PadTokenID >= cfg.VocabSize {
		cfg.PadTokenID = cfg.VocabSize - 1
		touch("pad_token_id_clamped")
	}
	if cfg.NormEps <= 0 {
		cfg.NormEps = 1e-5
		touch("norm_eps")
	}
	if cfg.Dropout < 0 {
		cfg.Dropout = 0
		touch("dropout")
	}

	if cfg.EncoderLayers <= 0 {
		cfg.EncoderLayers = cfg.NumLayers
		touch("encoder_layers")
	}
	if cfg.DecoderLayers <= 0 {
		cfg.DecoderLayers = cfg.NumLayers
		touch("decoder_layers")
	}

	if cfg.NumChannels <= 0 {
		cfg.NumChannels = 3
		touch("num_channels")
	}
	if cfg.ImageSize <= 0 {
		cfg.ImageSize = 224
		touch("image_size")
	}
	if cfg.NumLabels <= 0 {
		cfg.NumLabels = 2
		touch("num_labels")
	}

	return cfg, changes
}

func validDType(dtype string) bool {
	for _, known := range model.DTypes() {
		if dtype == known {
			return true
		}
	}
	return false
}

func largestDivisorAtMost(n, limit int64) int64 {
	if limit <= 0 {
		return 1
	}
	for candidate := limit; candidate > 1; candidate-- {
		if n%candidate == 0 {
			return candidate
		}
	}
	return 1
}
