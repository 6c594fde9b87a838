// # internal/engine/zoo/config.go
package zoo

// Config carries the hyperparameters the builders need to lay out a model's
// module graph. Values describe structure only; no weights exist anywhere.
type Config struct {
	DType            string  `toml:"dtype" json:"dtype"`
	VocabSize        int64   `toml:"vocab_size" json:"vocab_size"`
	TypeVocabSize    int64   `toml:"type_vocab_size" json:"type_vocab_size"`
	HiddenSize       int64   `toml:"hidden_size" json:"hidden_size"`
	IntermediateSize int64   `toml:"intermediate_size" json:"intermediate_size"`
	NumLayers        int     `toml:"num_hidden_layers" json:"num_hidden_layers"`
	NumHeads         int64   `toml:"num_attention_heads" json:"num_attention_heads"`
	NumKVHeads       int64   `toml:"num_key_value_heads" json:"num_key_value_heads"`
	HeadDim          int64   `toml:"head_dim" json:"head_dim"`
	MaxPositions     int64   `toml:"max_position_embeddings" json:"max_position_embeddings"`
	PadTokenID       int64   `toml:"pad_token_id" json:"pad_token_id"`
	NormEps          float64 `toml:"norm_eps" json:"norm_eps"`
	Dropout          float64 `toml:"dropout" json:"dropout"`

	// Seq2seq families.
	EncoderLayers int `toml:"encoder_layers" json:"encoder_layers,omitempty"`
	DecoderLayers int `toml:"decoder_layers" json:"decoder_layers,omitempty"`

	// Vision families.
	NumChannels int64 `toml:"num_channels" json:"num_channels,omitempty"`
	ImageSize   int64 `toml:"image_size" json:"image_size,omitempty"`
	NumLabels   int64 `toml:"num_labels" json:"num_labels,omitempty"`
}
