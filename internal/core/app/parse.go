package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"layerscope/internal/core/errors"
	"layerscope/internal/data/artifact"
	"layerscope/internal/engine/introspect"
	"layerscope/internal/engine/zoo"
	"layerscope/internal/shared/observability"
)

// ParseOptions are per-invocation overrides for one model parse.
type ParseOptions struct {
	DType     string
	NumLayers int
	Source    string
}

// ParseModel builds an architecture's module graph, walks it and assembles
// the full report. It never touches the filesystem; writing is the caller's
// concern.
func (a *App) ParseModel(ctx context.Context, id string, opts ParseOptions) (*artifact.Report, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ParseModel",
		trace.WithAttributes(attribute.String("model.architecture", id)))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()

	spec, err := a.Registry.Lookup(id)
	if err != nil {
		return nil, err
	}

	m, cfg, changes, err := a.Registry.Build(id, zoo.BuildOptions{
		DType:     opts.DType,
		NumLayers: opts.NumLayers,
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "build_model")
	}

	report := artifact.NewReport(id)
	report.Runtime.RunID = a.RunID
	report.Model.Source = opts.Source
	if report.Model.Source == "" {
		report.Model.Source = "registry"
	}
	report.Model.Class = spec.Class
	report.Model.Architecture = spec.ID
	report.Model.Family = spec.Family
	report.Model.Config = &cfg
	report.Model.EmptyWeights = true

	if len(changes) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Sanitized config fields: %s", strings.Join(sortedUnique(changes), ", ")))
	}

	// The root is labeled "model" for both name and path; the class field
	// still carries the architecture's class name.
	tree, err := introspect.BuildTree(m, "model", "model", introspect.Options{
		IncludeParameterDetails: a.Config.Details.Parameters,
		IncludeBufferDetails:    a.Config.Details.Buffers,
	})
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "build_tree")
	}

	flat := introspect.Flatten(tree)
	modules := &artifact.Modules{
		Tree:        tree,
		Flat:        flat,
		ModuleCount: flat.ModuleCount(),
	}

	if a.Config.Collapse.IsEnabled() {
		compact := introspect.Compact(tree, a.Config.Collapse.MinGroup)
		modules.CompactTree = compact
		modules.FlatCompact = introspect.Flatten(compact)
		observability.CollapsedNodesTotal.Add(float64(countCollapsed(compact)))
	}
	report.Modules = modules

	report.Model.Parameters = tree.Parameters.Total
	report.Model.Buffers = tree.Buffers.Total
	report.Model.SizeBytes = tree.Parameters.Total.SizeBytes + tree.Buffers.Total.SizeBytes

	observability.IntrospectDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())
	observability.ModuleNodes.Set(float64(modules.ModuleCount))

	return report, nil
}

// WriteReport persists a report under dataDir/<safe_id>/ with the configured
// compression and records the artifact size.
func (a *App) WriteReport(report *artifact.Report) (string, error) {
	filename, err := artifact.ReportFileName(a.Config.Output.Compression)
	if err != nil {
		return "", err
	}
	path := filepath.Join(a.Config.Output.Dir, report.Model.SafeID, filename)
	if err := artifact.WriteJSON(path, report, a.Config.Output.CompactJSON); err != nil {
		return "", err
	}
	if info, statErr := os.Stat(path); statErr == nil {
		observability.ArtifactBytes.WithLabelValues(a.Config.Output.Compression).
			Observe(float64(info.Size()))
	}
	return path, nil
}

func countCollapsed(n *introspect.Node) int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Collapsed {
		count++
	}
	for _, child := range n.Children {
		count += countCollapsed(child)
	}
	return count
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
