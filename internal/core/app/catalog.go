package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"

	"layerscope/internal/data/artifact"
	"layerscope/internal/data/store"
	"layerscope/internal/shared/observability"
	"layerscope/internal/shared/util"
)

// CatalogResult summarizes a parse-all run.
type CatalogResult struct {
	Parsed  int
	Failed  int
	Skipped int
	Index   *artifact.Index
}

// ParseAll walks the whole registry in sorted order, writes one artifact per
// architecture and finishes with index.json. A model that fails to build
// becomes an error report instead of aborting the run.
func (a *App) ParseAll(ctx context.Context) (CatalogResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.ParseAll")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.CatalogDuration.Observe(time.Since(start).Seconds())
	}()

	ids := a.Registry.Architectures()

	var filter glob.Glob
	if pattern := a.Config.Catalog.Filter; pattern != "" {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return CatalogResult{}, err
		}
		filter = compiled
	}

	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if filter != nil && !filter.Match(id) {
			continue
		}
		selected = append(selected, id)
	}
	if max := a.Config.Catalog.MaxModels; max > 0 && len(selected) > max {
		selected = selected[:max]
	}

	progress := util.NewLimiter(a.Config.Catalog.LogRate, 1)
	result := CatalogResult{}

	for i, id := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if a.Config.Catalog.ShouldResume() && a.hasOKReport(id) {
			result.Skipped++
			observability.ModelsSkippedTotal.Inc()
			continue
		}

		report, err := a.ParseModel(ctx, id, ParseOptions{Source: "catalog"})
		if err != nil {
			report = artifact.ErrorReport(id, err)
			result.Failed++
			observability.ModelsFailedTotal.Inc()
			slog.Warn("model parse failed", "architecture", id, "error", err)
		} else {
			result.Parsed++
			observability.ModelsParsedTotal.Inc()
		}

		if _, err := a.WriteReport(report); err != nil {
			return result, err
		}
		a.recordRun(report)

		if progress.Allow() {
			slog.Info("catalog progress",
				"done", i+1, "total", len(selected),
				"parsed", result.Parsed, "failed", result.Failed, "skipped", result.Skipped)
		}
	}

	if a.Config.Catalog.ShouldWriteIndex() {
		index, err := artifact.BuildIndex(a.Config.Output.Dir, "")
		if err != nil {
			return result, err
		}
		result.Index = index
	}

	slog.Info("catalog run finished",
		"parsed", result.Parsed, "failed", result.Failed, "skipped", result.Skipped,
		"duration", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// hasOKReport reports whether a previous run already produced a good
// artifact for this architecture, in any compression.
func (a *App) hasOKReport(id string) bool {
	modelDir := filepath.Join(a.Config.Output.Dir, artifact.SafeDirName(id))
	path, ok := artifact.FindReportFile(modelDir)
	if !ok {
		return false
	}
	var report artifact.Report
	if err := artifact.ReadJSON(path, &report); err != nil {
		return false
	}
	return report.Status == artifact.StatusOK
}

func (a *App) recordRun(report *artifact.Report) {
	if a.Store == nil {
		return
	}
	run := store.ModelRun{
		ModelID:            report.Model.ID,
		SafeID:             report.Model.SafeID,
		RunID:              a.RunID,
		Status:             report.Status,
		Architecture:       report.Model.Architecture,
		Family:             report.Model.Family,
		Class:              report.Model.Class,
		ParameterCount:     report.Model.Parameters.Count,
		ParameterTrainable: report.Model.Parameters.Trainable,
		BufferCount:        report.Model.Buffers.Count,
		SizeBytes:          report.Model.SizeBytes,
	}
	if report.Modules != nil {
		run.ModuleCount = report.Modules.ModuleCount
	}
	if report.Error != nil {
		run.Error = report.Error.Message
	}
	if err := a.Store.SaveRun(run); err != nil {
		slog.Warn("failed to record catalog run", "model", run.ModelID, "error", err)
	}
}
