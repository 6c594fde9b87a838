// # internal/data/artifact/compress_test.go
package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompressDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSampleReport(t, dir, "model-a", "model.json")
	writeSampleReport(t, dir, "model-b", "model.json")
	// Already compressed; no plain model.json, so it is left alone.
	writeSampleReport(t, dir, "model-c", "model.json.gz")

	count, err := CompressDirectory(dir, CompressOptions{
		Compression: CompressionGzip,
		CompactJSON: true,
	})
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if count != 2 {
		t.Errorf("converted %d, want 2", count)
	}

	for _, name := range []string{"model-a", "model-b"} {
		if _, err := os.Stat(filepath.Join(dir, name, "model.json")); !os.IsNotExist(err) {
			t.Errorf("%s: plain source should be removed", name)
		}
		var back Report
		if err := ReadJSON(filepath.Join(dir, name, "model.json.gz"), &back); err != nil {
			t.Errorf("%s: compressed artifact unreadable: %v", name, err)
		}
	}
}

func TestCompressDirectory_KeepJSONAndSkip(t *testing.T) {
	dir := t.TempDir()
	writeSampleReport(t, dir, "model-a", "model.json")

	opts := CompressOptions{Compression: CompressionZstd, KeepJSON: true}
	count, err := CompressDirectory(dir, opts)
	if err != nil || count != 1 {
		t.Fatalf("first pass: count=%d err=%v", count, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "model-a", "model.json")); err != nil {
		t.Error("keep-json should leave the plain source in place")
	}

	// Second pass skips the existing target.
	count, err = CompressDirectory(dir, opts)
	if err != nil || count != 0 {
		t.Errorf("second pass: count=%d err=%v", count, err)
	}

	opts.Overwrite = true
	count, err = CompressDirectory(dir, opts)
	if err != nil || count != 1 {
		t.Errorf("overwrite pass: count=%d err=%v", count, err)
	}
}

func TestCompressDirectory_RejectsNone(t *testing.T) {
	if _, err := CompressDirectory(t.TempDir(), CompressOptions{Compression: CompressionNone}); err == nil {
		t.Error("expected error for compression none")
	}
}
