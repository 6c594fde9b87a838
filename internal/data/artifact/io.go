// # internal/data/artifact/io.go
package artifact

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Supported compression schemes for on-disk artifacts.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

// ArtifactSuffix returns the model file suffix for a compression scheme.
func ArtifactSuffix(compression string) (string, error) {
	switch compression {
	case CompressionNone:
		return ".json", nil
	case CompressionGzip:
		return ".json.gz", nil
	case CompressionZstd:
		return ".json.zst", nil
	default:
		return "", fmt.Errorf("unsupported compression %q", compression)
	}
}

// ReportFileName returns the canonical model file name for a compression
// scheme, e.g. "model.json.gz".
func ReportFileName(compression string) (string, error) {
	suffix, err := ArtifactSuffix(compression)
	if err != nil {
		return "", err
	}
	return "model" + suffix, nil
}

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SafeDirName converts a model id into a filesystem-safe directory name.
// Runs of unsafe characters collapse to a double underscore.
func SafeDirName(modelID string) string {
	slug := unsafeDirChars.ReplaceAllString(strings.TrimSpace(modelID), "__")
	if slug == "" {
		return "model"
	}
	return slug
}

// WriteJSON writes v to path, creating parent directories and picking the
// codec from the file extension (.gz gzip, .zst zstd, anything else plain).
// Compact output drops all indentation for catalog-scale artifact dirs.
func WriteJSON(path string, v any, compact bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact directory for %q: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact %q: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var closer io.Closer

	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
		if err != nil {
			return fmt.Errorf("init gzip writer for %q: %w", path, err)
		}
		w, closer = gz, gz
	case ".zst":
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("init zstd writer for %q: %w", path, err)
		}
		w, closer = zw, zw
	}

	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode artifact %q: %w", path, err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("finish compressed artifact %q: %w", path, err)
		}
	}
	return f.Close()
}

// ReadJSON reads path into out, transparently decompressing by extension.
func ReadJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	switch filepath.Ext(path) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("init gzip reader for %q: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return fmt.Errorf("init zstd reader for %q: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode artifact %q: %w", path, err)
	}
	return nil
}

// FindReportFile locates the model artifact inside a model directory,
// whichever compression it was written with.
func FindReportFile(modelDir string) (string, bool) {
	for _, name := range []string{"model.json", "model.json.gz", "model.json.zst"} {
		path := filepath.Join(modelDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}
