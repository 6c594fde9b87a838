// # internal/data/artifact/io_test.go
package artifact

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeDirName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"BertModel::BertConfig", "BertModel__BertConfig"},
		{"org/model-v1.5", "org__model-v1.5"},
		{"  plain  ", "plain"},
		{"a b\tc", "a__b__c"},
		{"", "model"},
		{"///", "model"},
		{"already_safe-1.0", "already_safe-1.0"},
	}
	for _, tc := range cases {
		if got := SafeDirName(tc.in); got != tc.want {
			t.Errorf("SafeDirName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestArtifactSuffix(t *testing.T) {
	for compression, want := range map[string]string{
		CompressionNone: ".json",
		CompressionGzip: ".json.gz",
		CompressionZstd: ".json.zst",
	} {
		got, err := ArtifactSuffix(compression)
		if err != nil {
			t.Fatalf("%s: %v", compression, err)
		}
		if got != want {
			t.Errorf("%s: got %q, want %q", compression, got, want)
		}
	}
	if _, err := ArtifactSuffix("lz4"); err == nil {
		t.Error("expected error for unsupported compression")
	}
}

func TestWriteReadJSON_AllCodecs(t *testing.T) {
	dir := t.TempDir()
	report := NewReport("demo::model")
	report.Model.Class = "DemoModel"
	report.Warnings = []string{"Sanitized config fields: vocab_size"}

	for _, name := range []string{"model.json", "model.json.gz", "model.json.zst"} {
		path := filepath.Join(dir, name)
		if err := WriteJSON(path, report, name == "model.json.zst"); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		var back Report
		if err := ReadJSON(path, &back); err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if back.Model.ID != "demo::model" || back.Model.Class != "DemoModel" {
			t.Errorf("%s: round trip lost model fields: %+v", name, back.Model)
		}
		if back.SchemaVersion != SchemaVersion {
			t.Errorf("%s: schema version = %q", name, back.SchemaVersion)
		}
		if len(back.Warnings) != 1 {
			t.Errorf("%s: warnings lost", name)
		}
	}
}

func TestWriteJSON_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "model.json")
	if err := WriteJSON(path, map[string]int{"x": 1}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestFindReportFile_PrefersPlainJSON(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindReportFile(dir); ok {
		t.Error("found a report in an empty directory")
	}

	gz := filepath.Join(dir, "model.json.gz")
	if err := WriteJSON(gz, map[string]string{}, true); err != nil {
		t.Fatal(err)
	}
	path, ok := FindReportFile(dir)
	if !ok || path != gz {
		t.Errorf("expected %q, got %q (ok=%v)", gz, path, ok)
	}

	plain := filepath.Join(dir, "model.json")
	if err := WriteJSON(plain, map[string]string{}, true); err != nil {
		t.Fatal(err)
	}
	path, ok = FindReportFile(dir)
	if !ok || path != plain {
		t.Errorf("plain model.json should win, got %q", path)
	}
}

func TestErrorReport(t *testing.T) {
	report := ErrorReport("broken model", nil)
	if report.Status != StatusError {
		t.Errorf("status = %q", report.Status)
	}
	if report.Error == nil || report.Error.Message == "" {
		t.Fatal("error block missing")
	}
	if report.Model.SafeID != "broken__model" {
		t.Errorf("safe id = %q", report.Model.SafeID)
	}
	if report.Modules != nil {
		t.Error("error reports carry no modules block")
	}
}
