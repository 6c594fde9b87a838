// # internal/data/artifact/index.go
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// IndexEntry is the per-model summary row in index.json.
type IndexEntry struct {
	ID                 string `json:"id"`
	SafeID             string `json:"safe_id"`
	Source             string `json:"source,omitempty"`
	Architecture       string `json:"architecture,omitempty"`
	Family             string `json:"family,omitempty"`
	Class              string `json:"class,omitempty"`
	Status             string `json:"status"`
	ParameterCount     int64  `json:"parameter_count"`
	ParameterTrainable int64  `json:"parameter_trainable"`
	ParameterSizeBytes int64  `json:"parameter_size_bytes"`
	BufferCount        int64  `json:"buffer_count"`
	BufferSizeBytes    int64  `json:"buffer_size_bytes"`
	ModuleCount        int    `json:"module_count"`
	GeneratedAt        string `json:"generated_at"`
	Path               string `json:"path"`
	Error              string `json:"error,omitempty"`
}

// Index is the catalog-wide summary written as index.json.
type Index struct {
	Count  int          `json:"count"`
	Models []IndexEntry `json:"models"`
}

// BuildIndex scans every model directory under dataDir, summarizes each
// readable report and writes the result to outPath (index.json in dataDir
// when empty). Unreadable reports are skipped rather than failing the scan.
func BuildIndex(dataDir, outPath string) (*Index, error) {
	if outPath == "" {
		outPath = filepath.Join(dataDir, "index.json")
	}

	dirEntries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read artifact directory %q: %w", dataDir, err)
	}

	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	entries := make([]IndexEntry, 0, len(names))
	for _, name := range names {
		modelDir := filepath.Join(dataDir, name)
		reportFile, ok := FindReportFile(modelDir)
		if !ok {
			continue
		}
		var report Report
		if err := ReadJSON(reportFile, &report); err != nil {
			continue
		}
		rel, err := filepath.Rel(dataDir, reportFile)
		if err != nil {
			rel = filepath.Base(reportFile)
		}
		entries = append(entries, summarizeReport(&report, rel))
	}

	index := &Index{Count: len(entries), Models: entries}
	if err := WriteJSON(outPath, index, false); err != nil {
		return nil, err
	}
	return index, nil
}

func summarizeReport(report *Report, relativePath string) IndexEntry {
	entry := IndexEntry{
		ID:                 report.Model.ID,
		SafeID:             report.Model.SafeID,
		Source:             report.Model.Source,
		Architecture:       report.Model.Architecture,
		Family:             report.Model.Family,
		Class:              report.Model.Class,
		Status:             report.Status,
		ParameterCount:     report.Model.Parameters.Count,
		ParameterTrainable: report.Model.Parameters.Trainable,
		ParameterSizeBytes: report.Model.Parameters.SizeBytes,
		BufferCount:        report.Model.Buffers.Count,
		BufferSizeBytes:    report.Model.Buffers.SizeBytes,
		GeneratedAt:        report.GeneratedAt,
		Path:               relativePath,
	}
	if entry.Status == "" {
		entry.Status = "unknown"
	}
	if report.Modules != nil {
		entry.ModuleCount = report.Modules.ModuleCount
	}
	if report.Status == StatusError && report.Error != nil {
		entry.Error = report.Error.Message
	}
	return entry
}
