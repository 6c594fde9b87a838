// # internal/data/artifact/payload.go
package artifact

import (
	stderrors "errors"
	"runtime"
	"time"

	"layerscope/internal/core/errors"
	"layerscope/internal/engine/introspect"
	"layerscope/internal/engine/zoo"
)

const SchemaVersion = "1.0"

// ToolVersion is stamped into every report's runtime block.
const ToolVersion = "0.4.0"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Report is the full per-model artifact written as model.json (optionally
// compressed). Field order and naming are part of the on-disk schema.
type Report struct {
	SchemaVersion string     `json:"schema_version"`
	GeneratedAt   string     `json:"generated_at"`
	Status        string     `json:"status"`
	Model         ModelInfo  `json:"model"`
	Modules       *Modules   `json:"modules,omitempty"`
	Error         *ErrorInfo `json:"error,omitempty"`
	Runtime       *Runtime   `json:"runtime,omitempty"`
	Warnings      []string   `json:"warnings,omitempty"`
}

// ModelInfo identifies the model and carries its top-level aggregates.
type ModelInfo struct {
	ID           string               `json:"id"`
	SafeID       string               `json:"safe_id"`
	Source       string               `json:"source,omitempty"`
	Class        string               `json:"class,omitempty"`
	Architecture string               `json:"architecture,omitempty"`
	Family       string               `json:"family,omitempty"`
	Config       *zoo.Config          `json:"config,omitempty"`
	Parameters   introspect.Aggregate `json:"parameters"`
	Buffers      introspect.Aggregate `json:"buffers"`
	SizeBytes    int64                `json:"size_bytes"`
	EmptyWeights bool                 `json:"empty_weights"`
}

// Modules holds every rendering of the walked module graph.
type Modules struct {
	Tree        *introspect.Node      `json:"tree,omitempty"`
	CompactTree *introspect.Node      `json:"compact_tree,omitempty"`
	Flat        *introspect.FlatGraph `json:"flat,omitempty"`
	FlatCompact *introspect.FlatGraph `json:"flat_compact,omitempty"`
	ModuleCount int                   `json:"module_count"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Runtime records the environment a report was produced under.
type Runtime struct {
	Go       string `json:"go"`
	Platform string `json:"platform"`
	Tool     string `json:"tool"`
	RunID    string `json:"run_id,omitempty"`
}

// NewReport returns an ok-status report skeleton for a model id with the
// schema, timestamp and runtime blocks filled in.
func NewReport(modelID string) *Report {
	return &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   utcNow(),
		Status:        StatusOK,
		Model: ModelInfo{
			ID:     modelID,
			SafeID: SafeDirName(modelID),
		},
		Runtime: &Runtime{
			Go:       runtime.Version(),
			Platform: runtime.GOOS + "/" + runtime.GOARCH,
			Tool:     ToolVersion,
		},
	}
}

// ErrorReport wraps a failure into the same artifact shape so the catalog can
// record broken architectures next to parsed ones.
func ErrorReport(modelID string, err error) *Report {
	msg := "unknown error"
	errType := string(errors.CodeInternal)
	if err != nil {
		msg = err.Error()
		var de *errors.DomainError
		if stderrors.As(err, &de) {
			errType = string(de.Code)
		}
	}
	return &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   utcNow(),
		Status:        StatusError,
		Model: ModelInfo{
			ID:     modelID,
			SafeID: SafeDirName(modelID),
		},
		Error: &ErrorInfo{Type: errType, Message: msg},
	}
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
