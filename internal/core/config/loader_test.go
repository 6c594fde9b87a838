package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layerscope.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("load empty config: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.Output.Dir != "data/models" || cfg.Output.Compression != "none" {
		t.Errorf("output defaults wrong: %+v", cfg.Output)
	}
	if !cfg.Collapse.IsEnabled() || cfg.Collapse.MinGroup != 4 {
		t.Errorf("collapse defaults wrong: %+v", cfg.Collapse)
	}
	if !cfg.Catalog.ShouldResume() || !cfg.Catalog.ShouldWriteIndex() {
		t.Errorf("catalog defaults wrong: %+v", cfg.Catalog)
	}
	if cfg.DB.Path != "data/catalog.db" {
		t.Errorf("db path = %q", cfg.DB.Path)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("watch debounce = %v", cfg.Watch.Debounce)
	}
}

func TestLoad_ExplicitValuesSurviveDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
version = 1

[output]
dir = "out"
compression = "zstd"
compact_json = true

[collapse]
enabled = false
min_group = 6

[catalog]
filter = "causal-*"
max_models = 3
resume = false
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Dir != "out" || cfg.Output.Compression != "zstd" || !cfg.Output.CompactJSON {
		t.Errorf("output lost values: %+v", cfg.Output)
	}
	if cfg.Collapse.IsEnabled() {
		t.Error("explicit collapse.enabled=false was overridden")
	}
	if cfg.Collapse.MinGroup != 6 {
		t.Errorf("min group = %d", cfg.Collapse.MinGroup)
	}
	if cfg.Catalog.ShouldResume() {
		t.Error("explicit catalog.resume=false was overridden")
	}
	if cfg.Catalog.Filter != "causal-*" || cfg.Catalog.MaxModels != 3 {
		t.Errorf("catalog lost values: %+v", cfg.Catalog)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"bad version":         "version = 7",
		"bad compression":     "[output]\ncompression = \"lz4\"",
		"tiny min group":      "[collapse]\nmin_group = 1",
		"negative max models": "[catalog]\nmax_models = -1",
		"tracing no endpoint": "[tracing]\nenabled = true",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output.Dir == "" || cfg.Collapse.MinGroup == 0 {
		t.Errorf("Default left zero values: %+v", cfg)
	}
}
