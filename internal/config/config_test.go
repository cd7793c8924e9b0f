package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Inventory.DefaultMaxStack != 64 {
		t.Errorf("Expected default max stack 64, got %d", cfg.Inventory.DefaultMaxStack)
	}
	if cfg.Input.DoubleClickMs != 300 {
		t.Errorf("Expected double click 300ms, got %d", cfg.Input.DoubleClickMs)
	}
	if cfg.GUI.MaxLinkDepth != 64 {
		t.Errorf("Expected link depth 64, got %d", cfg.GUI.MaxLinkDepth)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected info level, got %q", cfg.Logging.Level)
	}
}

func TestParse(t *testing.T) {
	src := `
gui:
  max_link_depth: 5000
input:
  double_click_ms: 10
logging:
  level: debug
  json: true
items:
  - id: stone
  - id: ender_pearl
    max_stack: 16
demo:
  chest:
    - {slot: 0, item: stone, count: 60}
  script:
    - {gesture: pick-up-half, slot: 0}
    - {gesture: drag-distribute-even, slots: [1, 2, 3]}
`
	cfg, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.GUI.MaxLinkDepth != 1024 {
		t.Errorf("Expected link depth clamped to 1024, got %d", cfg.GUI.MaxLinkDepth)
	}
	if cfg.Input.DoubleClickMs != 50 {
		t.Errorf("Expected double click clamped to 50, got %d", cfg.Input.DoubleClickMs)
	}
	wantItems := []ItemConfig{{ID: "stone"}, {ID: "ender_pearl", MaxStack: 16}}
	if diff := cmp.Diff(wantItems, cfg.Items); diff != "" {
		t.Errorf("unexpected items (-want +got):\n%s", diff)
	}
	wantScript := []StepConfig{
		{Gesture: "pick-up-half", Slot: 0},
		{Gesture: "drag-distribute-even", Slots: []int{1, 2, 3}},
	}
	if diff := cmp.Diff(wantScript, cfg.Demo.Script); diff != "" {
		t.Errorf("unexpected script (-want +got):\n%s", diff)
	}
	if cfg.Demo.ChestRows != 3 || cfg.Demo.Viewer != "player" {
		t.Errorf("Expected demo defaults, got rows=%d viewer=%q", cfg.Demo.ChestRows, cfg.Demo.Viewer)
	}
}

func TestValidate(t *testing.T) {
	src := `
items:
  - id: stone
  - id: stone
  - max_stack: 3
demo:
  player:
    - {slot: 1, item: stone, count: 0}
`
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatalf("Expected validation error")
	}
	for _, want := range []string{"duplicate id", "id required", "demo.player[0]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected error to mention %q, got %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("scheduler:\n  tick_rate: 40\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scheduler.TickRate != 40 {
		t.Errorf("Expected tick rate 40, got %d", cfg.Scheduler.TickRate)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
	if err := os.WriteFile(path, []byte("gui: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Expected parse error")
	}
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	doc := string(data)
	for _, want := range []string{`"double_click_ms"`, `"max_link_depth"`, `"pick-up-half"`, `"invui configuration"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("Expected schema to contain %s", want)
		}
	}
}
