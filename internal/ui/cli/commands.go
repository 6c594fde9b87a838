package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"layerscope/internal/core/app"
	"layerscope/internal/core/config"
	"layerscope/internal/core/watcher"
	"layerscope/internal/data/artifact"
	"layerscope/internal/shared/observability"
	"layerscope/internal/ui/view"
)

func runParse(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	dtype := fs.String("dtype", "", "Override tensor dtype (float32, float16, bfloat16, ...)")
	layers := fs.Int("layers", 0, "Override hidden layer count")
	noWrite := fs.Bool("no-write", false, "Print the report to stdout instead of writing it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "parse requires exactly one architecture id")
		return 2
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		return 1
	}
	defer a.Close()

	ctx, shutdown := setupObservability(cfg, a)
	defer shutdown()

	report, err := a.ParseModel(ctx, fs.Arg(0), app.ParseOptions{
		DType:     *dtype,
		NumLayers: *layers,
		Source:    "cli",
	})
	if err != nil {
		slog.Error("parse failed", "architecture", fs.Arg(0), "error", err)
		return 1
	}

	if *noWrite {
		return printReport(report)
	}

	path, err := a.WriteReport(report)
	if err != nil {
		slog.Error("failed to write report", "error", err)
		return 1
	}
	fmt.Printf("%s: %d modules, %d parameters -> %s\n",
		report.Model.ID, report.Modules.ModuleCount, report.Model.Parameters.Count, path)
	return 0
}

func runParseAll(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("parse-all", flag.ContinueOnError)
	filter := fs.String("filter", cfg.Catalog.Filter, "Glob filter on architecture ids")
	maxModels := fs.Int("max", cfg.Catalog.MaxModels, "Stop after this many models (0 = all)")
	noResume := fs.Bool("no-resume", false, "Re-parse models that already have an ok report")
	watch := fs.Bool("watch", false, "Keep running and re-parse manifest models on change")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg.Catalog.Filter = *filter
	cfg.Catalog.MaxModels = *maxModels
	if *noResume {
		off := false
		cfg.Catalog.Resume = &off
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		return 1
	}
	defer a.Close()

	ctx, shutdown := setupObservability(cfg, a)
	defer shutdown()

	result, err := a.ParseAll(ctx)
	if err != nil {
		slog.Error("catalog run failed", "error", err)
		return 1
	}
	fmt.Printf("parsed %d, failed %d, skipped %d\n", result.Parsed, result.Failed, result.Skipped)

	if !*watch {
		if result.Failed > 0 {
			return 1
		}
		return 0
	}
	return runWatch(ctx, cfg, a)
}

// runWatch blocks, re-parsing the manifest's architectures whenever the
// manifest file changes.
func runWatch(ctx context.Context, cfg *config.Config, a *app.App) int {
	manifest := cfg.Watch.Manifest
	if manifest == "" {
		fmt.Fprintln(os.Stderr, "watch mode requires watch.manifest in the config")
		return 2
	}

	w, err := watcher.NewManifestWatcher(manifest, cfg.Watch.Debounce, cfg.Watch.Exclude, func(ids []string) {
		for _, id := range ids {
			report, err := a.ParseModel(ctx, id, app.ParseOptions{Source: "watch"})
			if err != nil {
				report = artifact.ErrorReport(id, err)
				slog.Warn("re-parse failed", "architecture", id, "error", err)
			}
			if _, err := a.WriteReport(report); err != nil {
				slog.Error("failed to write report", "architecture", id, "error", err)
			}
		}
		if cfg.Catalog.ShouldWriteIndex() {
			if _, err := artifact.BuildIndex(cfg.Output.Dir, ""); err != nil {
				slog.Warn("failed to rebuild index", "error", err)
			}
		}
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		return 1
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return 1
	}
	slog.Info("watching manifest", "path", manifest, "debounce", cfg.Watch.Debounce)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return 0
}

func runIndex(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	dir := fs.String("dir", cfg.Output.Dir, "Artifact directory to index")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	index, err := artifact.BuildIndex(*dir, "")
	if err != nil {
		slog.Error("failed to build index", "error", err)
		return 1
	}
	fmt.Printf("indexed %d models\n", index.Count)
	return 0
}

func runCompress(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("compress", flag.ContinueOnError)
	dir := fs.String("dir", cfg.Output.Dir, "Artifact directory")
	format := fs.String("format", "gzip", "Target compression (gzip or zstd)")
	keepJSON := fs.Bool("keep-json", false, "Keep the plain model.json next to the compressed copy")
	overwrite := fs.Bool("overwrite", false, "Overwrite existing compressed files")
	pretty := fs.Bool("pretty", false, "Indent JSON inside the compressed files")
	noIndex := fs.Bool("no-index", false, "Skip rebuilding index.json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	count, err := artifact.CompressDirectory(*dir, artifact.CompressOptions{
		Compression: *format,
		KeepJSON:    *keepJSON,
		Overwrite:   *overwrite,
		CompactJSON: !*pretty,
	})
	if err != nil {
		slog.Error("compress failed", "error", err)
		return 1
	}
	if !*noIndex {
		if _, err := artifact.BuildIndex(*dir, ""); err != nil {
			slog.Error("failed to rebuild index", "error", err)
			return 1
		}
	}
	fmt.Printf("compressed %d models\n", count)
	return 0
}

func runChunk(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("chunk", flag.ContinueOnError)
	dir := fs.String("dir", cfg.Output.Dir, "Artifact directory")
	format := fs.String("format", "gzip", "Chunk compression (none, gzip or zstd)")
	keepFull := fs.Bool("keep-full", false, "Keep a full model.full.json next to the manifest")
	overwrite := fs.Bool("overwrite", false, "Re-chunk already chunked models")
	pretty := fs.Bool("pretty", false, "Indent JSON in manifest and chunks")
	noIndex := fs.Bool("no-index", false, "Skip rebuilding index.json")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	count, err := artifact.ChunkDirectory(*dir, artifact.ChunkOptions{
		Compression: *format,
		KeepFull:    *keepFull,
		Overwrite:   *overwrite,
		CompactJSON: !*pretty,
	})
	if err != nil {
		slog.Error("chunk failed", "error", err)
		return 1
	}
	if !*noIndex {
		if _, err := artifact.BuildIndex(*dir, ""); err != nil {
			slog.Error("failed to rebuild index", "error", err)
			return 1
		}
	}
	fmt.Printf("chunked %d models\n", count)
	return 0
}

func runView(cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "view requires a report path or architecture id")
		return 2
	}

	target := fs.Arg(0)
	if _, err := os.Stat(target); err != nil {
		modelDir := filepath.Join(cfg.Output.Dir, artifact.SafeDirName(target))
		path, ok := artifact.FindReportFile(modelDir)
		if !ok {
			fmt.Fprintf(os.Stderr, "no report found for %q (looked in %s)\n", target, modelDir)
			return 1
		}
		target = path
	}

	if err := view.Run(target); err != nil {
		slog.Error("viewer failed", "error", err)
		return 1
	}
	return 0
}

// setupObservability starts the metrics endpoint and tracing exporter when
// enabled and returns a context plus a combined shutdown function.
func setupObservability(cfg *config.Config, a *app.App) (context.Context, func()) {
	ctx := context.Background()
	var stops []func()

	if cfg.Metrics.Enabled {
		server := NewObservabilityServer(cfg.Metrics.Addr, app.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			slog.Warn("metrics endpoint disabled", "error", err)
		} else {
			stops = append(stops, func() { _ = server.Stop(context.Background()) })
		}
	}

	if cfg.Tracing.Enabled {
		stop, err := observability.SetupTracing(ctx, cfg.Tracing.Endpoint, versionString)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			stops = append(stops, func() { _ = stop(context.Background()) })
		}
	}

	return ctx, func() {
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}
}

func printReport(report *artifact.Report) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("failed to print report", "error", err)
		return 1
	}
	return 0
}
