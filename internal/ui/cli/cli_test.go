package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGlobal_SplitsCommandArgs(t *testing.T) {
	opts, err := parseGlobal([]string{"-verbose", "parse", "-dtype", "float16", "causal-lm-mini"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !opts.verbose {
		t.Error("verbose flag lost")
	}
	if len(opts.args) != 4 || opts.args[0] != "parse" {
		t.Fatalf("unexpected args: %v", opts.args)
	}
}

func TestParseGlobal_Defaults(t *testing.T) {
	opts, err := parseGlobal(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.configPath != defaultConfigPath {
		t.Errorf("config path = %q", opts.configPath)
	}
	if opts.verbose || opts.version {
		t.Error("flags should default to off")
	}
}

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatalf("expected default fallback, got %v", err)
	}
	if cfg.Output.Dir == "" {
		t.Error("fallback config is empty")
	}
}

func TestLoadConfig_ExplicitPathMustExist(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for explicit missing path")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	if code := Run([]string{"frobnicate"}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRun_Version(t *testing.T) {
	if code := Run([]string{"-version"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}
