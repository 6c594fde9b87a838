// # internal/engine/zoo/builders.go
package zoo

import "layerscope/internal/engine/model"

// buildTextEncoder lays out a BERT-style bidirectional encoder: embeddings,
// a stack of identical encoder blocks, and a pooler.
func buildTextEncoder(cfg Config) (model.Module, error) {
	root := model.NewComposite("TextEncoderModel")

	embeddings := model.NewComposite("TextEmbeddings")
	embeddings.AddChild("word_embeddings", embedding(cfg, cfg.VocabSize, cfg.HiddenSize))
	embeddings.AddChild("position_embeddings", embedding(cfg, cfg.MaxPositions, cfg.HiddenSize))
	embeddings.AddChild("token_type_embeddings", embedding(cfg, cfg.TypeVocabSize, cfg.HiddenSize))
	embeddings.AddChild("norm", layerNorm(cfg, cfg.HiddenSize))
	embeddings.AddChild("dropout", dropout())
	embeddings.AddBuffer("position_ids", model.MustMeta("int64", false, 1, cfg.MaxPositions))
	root.AddChild("embeddings", embeddings)

	encoder := model.NewComposite("TransformerEncoder")
	layers := model.NewComposite("ModuleList")
	for i := 0; i < cfg.NumLayers; i++ {
		layers.AddIndexed(encoderBlock(cfg))
	}
	encoder.AddChild("layer", layers)
	root.AddChild("encoder", encoder)

	pooler := model.NewComposite("Pooler")
	pooler.AddChild("dense", linear(cfg, cfg.HiddenSize, cfg.HiddenSize, true))
	pooler.AddChild("activation", activation("Tanh"))
	root.AddChild("pooler", pooler)

	return root, nil
}

func encoderBlock(cfg Config) *model.Composite {
	block := model.NewComposite("EncoderBlock")

	attn := model.NewComposite("SelfAttention")
	attn.AddChild("query", linear(cfg, cfg.NumHeads*cfg.HeadDim, cfg.HiddenSize, true))
	attn.AddChild("key", linear(cfg, cfg.NumKVHeads*cfg.HeadDim, cfg.HiddenSize, true))
	attn.AddChild("value", linear(cfg, cfg.NumKVHeads*cfg.HeadDim, cfg.HiddenSize, true))
	attn.AddChild("output", linear(cfg, cfg.HiddenSize, cfg.NumHeads*cfg.HeadDim, true))
	attn.AddChild("dropout", dropout())
	block.AddChild("attention", attn)
	block.AddChild("attention_norm", layerNorm(cfg, cfg.HiddenSize))

	mlp := model.NewComposite("FeedForward")
	mlp.AddChild("up", linear(cfg, cfg.IntermediateSize, cfg.HiddenSize, true))
	mlp.AddChild("act", activation("GELU"))
	mlp.AddChild("down", linear(cfg, cfg.HiddenSize, cfg.IntermediateSize, true))
	mlp.AddChild("dropout", dropout())
	block.AddChild("mlp", mlp)
	block.AddChild("mlp_norm", layerNorm(cfg, cfg.HiddenSize))

	return block
}

// buildCausalLM lays out a GPT-style decoder-only language model with a tied
// head left untied so head parameters are visible in the walk.
func buildCausalLM(cfg Config) (model.Module, error) {
	root := model.NewComposite("CausalLMModel")

	transformer := model.NewComposite("TransformerDecoder")
	transformer.AddChild("wte", embedding(cfg, cfg.VocabSize, cfg.HiddenSize))
	transformer.AddChild("wpe", embedding(cfg, cfg.MaxPositions, cfg.HiddenSize))
	transformer.AddChild("drop", dropout())

	blocks := model.NewComposite("ModuleList")
	for i := 0; i < cfg.NumLayers; i++ {
		blocks.AddIndexed(decoderBlock(cfg))
	}
	transformer.AddChild("h", blocks)
	transformer.AddChild("ln_f", layerNorm(cfg, cfg.HiddenSize))
	root.AddChild("transformer", transformer)

	root.AddChild("lm_head", linear(cfg, cfg.VocabSize, cfg.HiddenSize, false))

	return root, nil
}

func decoderBlock(cfg Config) *model.Composite {
	block := model.NewComposite("DecoderBlock")
	block.AddChild("ln_1", layerNorm(cfg, cfg.HiddenSize))

	attn := model.NewComposite("CausalSelfAttention")
	attn.AddChild("c_attn", linear(cfg, 3*cfg.HiddenSize, cfg.HiddenSize, true))
	attn.AddChild("c_proj", linear(cfg, cfg.HiddenSize, cfg.HiddenSize, true))
	attn.AddChild("dropout", dropout())
	attn.AddBuffer("mask", model.MustMeta("bool", false, 1, 1, cfg.MaxPositions, cfg.MaxPositions))
	block.AddChild("attn", attn)

	block.AddChild("ln_2", layerNorm(cfg, cfg.HiddenSize))

	mlp := model.NewComposite("MLP")
	mlp.AddChild("c_fc", linear(cfg, cfg.IntermediateSize, cfg.HiddenSize, true))
	mlp.AddChild("act", activation("GELU"))
	mlp.AddChild("c_proj", linear(cfg, cfg.HiddenSize, cfg.IntermediateSize, true))
	block.AddChild("mlp", mlp)

	return block
}

// buildSeq2Seq lays out an encoder-decoder transformer with a shared token
// embedding and cross-attention in every decoder block.
func buildSeq2Seq(cfg Config) (model.Module, error) {
	root := model.NewComposite("Seq2SeqModel")
	root.AddChild("shared", embedding(cfg, cfg.VocabSize, cfg.HiddenSize))

	encoder := model.NewComposite("TransformerEncoder")
	encLayers := model.NewComposite("ModuleList")
	for i := 0; i < cfg.EncoderLayers; i++ {
		encLayers.AddIndexed(encoderBlock(cfg))
	}
	encoder.AddChild("layers", encLayers)
	encoder.AddChild("final_norm", rmsNorm(cfg, cfg.HiddenSize))
	root.AddChild("encoder", encoder)

	decoder := model.NewComposite("TransformerDecoder")
	decLayers := model.NewComposite("ModuleList")
	for i := 0; i < cfg.DecoderLayers; i++ {
		block := encoderBlock(cfg)

		cross := model.NewComposite("CrossAttention")
		cross.AddChild("query", linear(cfg, cfg.NumHeads*cfg.HeadDim, cfg.HiddenSize, false))
		cross.AddChild("key", linear(cfg, cfg.NumKVHeads*cfg.HeadDim, cfg.HiddenSize, false))
		cross.AddChild("value", linear(cfg, cfg.NumKVHeads*cfg.HeadDim, cfg.HiddenSize, false))
		cross.AddChild("output", linear(cfg, cfg.HiddenSize, cfg.NumHeads*cfg.HeadDim, false))
		block.AddChild("cross_attention", cross)
		block.AddChild("cross_attention_norm", rmsNorm(cfg, cfg.HiddenSize))

		decLayers.AddIndexed(block)
	}
	decoder.AddChild("layers", decLayers)
	decoder.AddChild("final_norm", rmsNorm(cfg, cfg.HiddenSize))
	root.AddChild("decoder", decoder)

	root.AddChild("lm_head", linear(cfg, cfg.VocabSize, cfg.HiddenSize, false))

	return root, nil
}

// buildConvClassifier lays out a small convolutional image classifier with
// batch-norm buffers, exercising the buffer side of the walk.
func buildConvClassifier(cfg Config) (model.Module, error) {
	root := model.NewComposite("ConvClassifier")

	features := model.NewComposite("ModuleList")
	channels := cfg.NumChannels
	width := int64(32)
	for i := 0; i < cfg.NumLayers; i++ {
		stage := model.NewComposite("ConvBlock")
		stage.AddChild("conv", conv2d(cfg, width, channels, 3, false))
		stage.AddChild("bn", batchNorm2d(cfg, width))
		stage.AddChild("act", activation("ReLU"))
		features.AddIndexed(stage)
		channels = width
		width *= 2
	}
	root.AddChild("features", features)

	root.AddChild("pool", model.NewComposite("AdaptiveAvgPool2d"))

	classifier := model.NewComposite("ClassifierHead")
	classifier.AddChild("dropout", dropout())
	classifier.AddChild("fc", linear(cfg, cfg.NumLabels, channels, true))
	root.AddChild("classifier", classifier)

	return root, nil
}
