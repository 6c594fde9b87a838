// # internal/data/artifact/chunk.go
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ChunkLayout identifies the chunked manifest format.
const ChunkLayout = "chunked_v1"

// ChunkOptions controls how full reports are split into manifest + chunks.
type ChunkOptions struct {
	Compression string
	KeepFull    bool
	Overwrite   bool
	CompactJSON bool
}

// ChunkItem records one section file under chunks/.
type ChunkItem struct {
	Key       string `json:"key"`
	Path      string `json:"path,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Present   bool   `json:"present"`
}

// ChunkSet is the manifest block describing the split layout.
type ChunkSet struct {
	Layout      string              `json:"layout"`
	BaseDir     string              `json:"base_dir"`
	Compression string              `json:"compression"`
	Items       []ChunkItem         `json:"items"`
	Groups      map[string][]string `json:"groups"`
}

// Manifest is the slim model.json left behind after chunking: the report
// minus its heavy sections, plus a chunk directory listing.
type Manifest struct {
	SchemaVersion string       `json:"schema_version"`
	GeneratedAt   string       `json:"generated_at"`
	Status        string       `json:"status"`
	Model         ModelInfo    `json:"model"`
	Modules       ManifestMods `json:"modules"`
	Error         *ErrorInfo   `json:"error,omitempty"`
	Runtime       *Runtime     `json:"runtime,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
	Chunks        *ChunkSet    `json:"chunks"`
}

// ManifestMods keeps only the module count; the trees live in chunk files.
type ManifestMods struct {
	ModuleCount int `json:"module_count"`
}

func chunkGroups() map[string][]string {
	return map[string][]string{
		"model": {"model.config"},
		"modules": {
			"modules.tree",
			"modules.compact_tree",
			"modules.flat",
			"modules.flat_compact",
		},
	}
}

// sectionPayloads maps chunk keys to their payloads in a fixed order.
// A nil payload records the section as absent.
func sectionPayloads(report *Report) ([]string, map[string]any) {
	payloads := map[string]any{
		"model.config":         nil,
		"modules.tree":         nil,
		"modules.compact_tree": nil,
		"modules.flat":         nil,
		"modules.flat_compact": nil,
	}
	if report.Model.Config != nil {
		payloads["model.config"] = report.Model.Config
	}
	if report.Modules != nil {
		if report.Modules.Tree != nil {
			payloads["modules.tree"] = report.Modules.Tree
		}
		if report.Modules.CompactTree != nil {
			payloads["modules.compact_tree"] = report.Modules.CompactTree
		}
		if report.Modules.Flat != nil {
			payloads["modules.flat"] = report.Modules.Flat
		}
		if report.Modules.FlatCompact != nil {
			payloads["modules.flat_compact"] = report.Modules.FlatCompact
		}
	}
	keys := make([]string, 0, len(payloads))
	for key := range payloads {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, payloads
}

func chunkFileName(key, compression string) (string, error) {
	suffix, err := ArtifactSuffix(compression)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(key, "/", "_") + suffix, nil
}

// ChunkModelDir splits one model directory's report into a manifest plus
// per-section chunk files. Returns false when there is nothing to do: no
// report present, or already chunked and overwrite is off.
func ChunkModelDir(modelDir string, opts ChunkOptions) (bool, error) {
	source, ok := FindReportFile(modelDir)
	if !ok {
		return false, nil
	}

	manifestPath := filepath.Join(modelDir, "model.json")
	if _, err := os.Stat(manifestPath); err == nil {
		var existing Manifest
		if err := ReadJSON(manifestPath, &existing); err == nil {
			if existing.Chunks != nil && !opts.Overwrite {
				return false, nil
			}
		}
	}

	var report Report
	if err := ReadJSON(source, &report); err != nil {
		return false, err
	}

	manifest := &Manifest{
		SchemaVersion: report.SchemaVersion,
		GeneratedAt:   report.GeneratedAt,
		Status:        report.Status,
		Model:         report.Model,
		Error:         report.Error,
		Runtime:       report.Runtime,
		Warnings:      report.Warnings,
		Chunks: &ChunkSet{
			Layout:      ChunkLayout,
			BaseDir:     "chunks",
			Compression: opts.Compression,
			Groups:      chunkGroups(),
		},
	}
	// The manifest drops the config; readers fetch it from its chunk.
	manifest.Model.Config = nil
	if report.Modules != nil {
		manifest.Modules.ModuleCount = report.Modules.ModuleCount
	}

	chunkDir := filepath.Join(modelDir, "chunks")
	keys, payloads := sectionPayloads(&report)
	items := make([]ChunkItem, 0, len(keys))
	for _, key := range keys {
		payload := payloads[key]
		if payload == nil {
			items = append(items, ChunkItem{Key: key, Present: false})
			continue
		}
		filename, err := chunkFileName(key, opts.Compression)
		if err != nil {
			return false, err
		}
		path := filepath.Join(chunkDir, filename)
		if err := WriteJSON(path, payload, opts.CompactJSON); err != nil {
			return false, err
		}
		var size int64
		if info, statErr := os.Stat(path); statErr == nil {
			size = info.Size()
		}
		items = append(items, ChunkItem{
			Key:       key,
			Path:      "chunks/" + filename,
			SizeBytes: size,
			Present:   true,
		})
	}
	manifest.Chunks.Items = items

	if err := WriteJSON(manifestPath, manifest, opts.CompactJSON); err != nil {
		return false, err
	}

	if opts.KeepFull {
		if filepath.Base(source) == "model.json" {
			fullPath := filepath.Join(modelDir, "model.full.json")
			if _, err := os.Stat(fullPath); err == nil && !opts.Overwrite {
				return true, nil
			}
			// model.json now holds the manifest; the original moved aside first
			// would race it, so rewrite the full report instead.
			if err := WriteJSON(fullPath, &report, opts.CompactJSON); err != nil {
				return false, err
			}
		}
	} else if filepath.Base(source) != "model.json" {
		if err := os.Remove(source); err != nil && !os.IsNotExist(err) {
			return false, fmt.Errorf("remove chunked source %q: %w", source, err)
		}
	}

	return true, nil
}

// ChunkDirectory chunks every model directory under dataDir and returns how
// many were converted.
func ChunkDirectory(dataDir string, opts ChunkOptions) (int, error) {
	if _, err := ArtifactSuffix(opts.Compression); err != nil {
		return 0, err
	}
	dirEntries, err := os.ReadDir(dataDir)
	if err != nil {
		return 0, fmt.Errorf("read artifact directory %q: %w", dataDir, err)
	}
	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	count := 0
	for _, name := range names {
		converted, err := ChunkModelDir(filepath.Join(dataDir, name), opts)
		if err != nil {
			return count, fmt.Errorf("chunk %q: %w", name, err)
		}
		if converted {
			count++
		}
	}
	return count, nil
}
