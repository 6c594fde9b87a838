// # internal/data/artifact/compress.go
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CompressOptions controls re-encoding of plain model.json artifacts.
type CompressOptions struct {
	Compression string
	KeepJSON    bool
	Overwrite   bool
	CompactJSON bool
}

// CompressDirectory re-encodes every plain model.json under dataDir to the
// target compression and returns how many files were converted. Already
// converted targets are skipped unless overwrite is set.
func CompressDirectory(dataDir string, opts CompressOptions) (int, error) {
	if opts.Compression == CompressionNone {
		return 0, fmt.Errorf("compress needs gzip or zstd, got %q", opts.Compression)
	}
	suffix, err := ArtifactSuffix(opts.Compression)
	if err != nil {
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
		source := filepath.Join(dataDir, name, "model.json")
		if _, err := os.Stat(source); err != nil {
			continue
		}
		target := filepath.Join(dataDir, name, "model"+suffix)
		if _, err := os.Stat(target); err == nil && !opts.Overwrite {
			continue
		}

		var report Report
		if err := ReadJSON(source, &report); err != nil {
			return count, fmt.Errorf("read %q: %w", source, err)
		}
		if err := WriteJSON(target, &report, opts.CompactJSON); err != nil {
			return count, err
		}
		if !opts.KeepJSON {
			if err := os.Remove(source); err != nil {
				return count, fmt.Errorf("remove %q: %w", source, err)
			}
		}
		count++
	}
	return count, nil
}
