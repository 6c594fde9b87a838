// # internal/engine/zoo/layers.go
package zoo

import "layerscope/internal/engine/model"

// Shared leaf constructors. Class names matter: the introspection classifier
// tags nodes by substring, so these mirror the names tensor frameworks use.

func linear(cfg Config, out, in int64, bias bool) *model.Composite {
	m := model.NewComposite("Linear")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, out, in))
	if bias {
		m.AddParameter("bias", model.MustMeta(cfg.DType, true, out))
	}
	return m
}

func embedding(cfg Config, rows, cols int64) *model.Composite {
	m := model.NewComposite("Embedding")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, rows, cols))
	return m
}

func layerNorm(cfg Config, dim int64) *model.Composite {
	m := model.NewComposite("LayerNorm")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, dim))
	m.AddParameter("bias", model.MustMeta(cfg.DType, true, dim))
	return m
}

func rmsNorm(cfg Config, dim int64) *model.Composite {
	m := model.NewComposite("RMSNorm")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, dim))
	return m
}

func dropout() *model.Composite {
	return model.NewComposite("Dropout")
}

func activation(class string) *model.Composite {
	return model.NewComposite(class)
}

func conv2d(cfg Config, out, in, kernel int64, bias bool) *model.Composite {
	m := model.NewComposite("Conv2d")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, out, in, kernel, kernel))
	if bias {
		m.AddParameter("bias", model.MustMeta(cfg.DType, true, out))
	}
	return m
}

func batchNorm2d(cfg Config, features int64) *model.Composite {
	m := model.NewComposite("BatchNorm2d")
	m.AddParameter("weight", model.MustMeta(cfg.DType, true, features))
	m.AddParameter("bias", model.MustMeta(cfg.DType, true, features))
	m.AddBuffer("running_mean", model.MustMeta("float32", false, features))
	m.AddBuffer("running_var", model.MustMeta("float32", false, features))
	m.AddBuffer("num_batches_tracked", model.MustMeta("int64", false))
	return m
}
