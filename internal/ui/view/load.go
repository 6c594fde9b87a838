// # internal/ui/view/load.go
package view

import (
	"path/filepath"

	"layerscope/internal/data/artifact"
	"layerscope/internal/engine/introspect"
)

// LoadReport reads a model artifact for viewing. A chunked manifest is
// rehydrated by pulling the tree sections back out of its chunk files.
func LoadReport(path string) (*artifact.Report, error) {
	var manifest artifact.Manifest
	if err := artifact.ReadJSON(path, &manifest); err != nil {
		return nil, err
	}
	if manifest.Chunks == nil {
		var report artifact.Report
		if err := artifact.ReadJSON(path, &report); err != nil {
			return nil, err
		}
		return &report, nil
	}

	report := &artifact.Report{
		SchemaVersion: manifest.SchemaVersion,
		GeneratedAt:   manifest.GeneratedAt,
		Status:        manifest.Status,
		Model:         manifest.Model,
		Error:         manifest.Error,
		Runtime:       manifest.Runtime,
		Warnings:      manifest.Warnings,
		Modules: &artifact.Modules{
			ModuleCount: manifest.Modules.ModuleCount,
		},
	}

	baseDir := filepath.Dir(path)
	for _, chunk := range manifest.Chunks.Items {
		if !chunk.Present {
			continue
		}
		chunkPath := filepath.Join(baseDir, filepath.FromSlash(chunk.Path))
		switch chunk.Key {
		case "modules.tree":
			var tree introspect.Node
			if err := artifact.ReadJSON(chunkPath, &tree); err != nil {
				return nil, err
			}
			report.Modules.Tree = &tree
		case "modules.compact_tree":
			var tree introspect.Node
			if err := artifact.ReadJSON(chunkPath, &tree); err != nil {
				return nil, err
			}
			report.Modules.CompactTree = &tree
		}
	}

	return report, nil
}
