// # internal/ui/view/view_test.go
package view

import (
	"path/filepath"
	"strings"
	"testing"

	"layerscope/internal/data/artifact"
	"layerscope/internal/engine/introspect"
)

func sampleReport() *artifact.Report {
	report := artifact.NewReport("demo")
	report.Model.Class = "DemoModel"
	report.Model.Parameters = introspect.Aggregate{Count: 1500000, Trainable: 1500000, SizeBytes: 6000000}
	leaf := &introspect.Node{
		Name: "fc", Path: "model.fc", Class: "Linear",
		Kind: introspect.KindLeaf, Tags: []string{"linear"},
		Parameters: introspect.TensorStats{
			Self:  introspect.Aggregate{Count: 100, Trainable: 100, SizeBytes: 400},
			Total: introspect.Aggregate{Count: 100, Trainable: 100, SizeBytes: 400},
		},
	}
	root := &introspect.Node{
		Name: "DemoModel", Path: "model", Class: "DemoModel",
		Kind: introspect.KindContainer, Tags: []string{},
		Parameters: leaf.Parameters,
		Children:   []*introspect.Node{leaf},
	}
	report.Modules = &artifact.Modules{Tree: root, ModuleCount: 2}
	return report
}

func TestTreeItems_PreOrderWithIndent(t *testing.T) {
	report := sampleReport()
	items := treeItems(report.Modules.Tree)
	if len(items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(items))
	}
	first := items[0].(item)
	second := items[1].(item)
	if strings.HasPrefix(first.title, " ") {
		t.Errorf("root should not be indented: %q", first.title)
	}
	if !strings.HasPrefix(second.title, "  ") {
		t.Errorf("child should be indented: %q", second.title)
	}
	if !strings.Contains(second.desc, "linear") {
		t.Errorf("tags missing from description: %q", second.desc)
	}
}

func TestNodeItem_CollapsedShowsRepeat(t *testing.T) {
	n := &introspect.Node{
		Name: "1..4", Class: "Block", Kind: introspect.KindCollapsed,
		Collapsed: true, Repeat: 4,
	}
	row := nodeItem(n, 1)
	if !strings.Contains(row.title, "×4") {
		t.Errorf("repeat count missing: %q", row.title)
	}
	if !row.collapsed {
		t.Error("collapsed flag lost")
	}
}

func TestHumanCount(t *testing.T) {
	cases := map[int64]string{
		12:            "12",
		1500:          "1.5K",
		2_500_000:     "2.5M",
		7_000_000_000: "7.0B",
	}
	for in, want := range cases {
		if got := humanCount(in); got != want {
			t.Errorf("humanCount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadReport_FullAndChunked(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()
	report.Model.Config = nil

	full := filepath.Join(dir, report.Model.SafeID, "model.json")
	if err := artifact.WriteJSON(full, report, false); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadReport(full)
	if err != nil {
		t.Fatalf("load full: %v", err)
	}
	if loaded.Modules == nil || loaded.Modules.Tree == nil {
		t.Fatal("full report lost its tree")
	}

	modelDir := filepath.Dir(full)
	if _, err := artifact.ChunkModelDir(modelDir, artifact.ChunkOptions{
		Compression: artifact.CompressionNone,
	}); err != nil {
		t.Fatalf("chunk: %v", err)
	}

	rehydrated, err := LoadReport(filepath.Join(modelDir, "model.json"))
	if err != nil {
		t.Fatalf("load chunked: %v", err)
	}
	if rehydrated.Modules == nil || rehydrated.Modules.Tree == nil {
		t.Fatal("chunked report lost its tree")
	}
	if rehydrated.Modules.Tree.Children[0].Path != "model.fc" {
		t.Errorf("tree content lost: %+v", rehydrated.Modules.Tree)
	}
	if rehydrated.Modules.ModuleCount != 2 {
		t.Errorf("module count = %d", rehydrated.Modules.ModuleCount)
	}
}
