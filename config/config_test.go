package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kappasdr/streamcore/config"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	c := config.Default()
	if c.Connector.DefaultCapacity != 50 {
		t.Fatalf("default capacity = %d, want 50", c.Connector.DefaultCapacity)
	}
	if c.TaskUpdateInterval().Milliseconds() != 100 {
		t.Fatalf("update interval = %v, want 100ms", c.TaskUpdateInterval())
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"task":{"send_statistics":true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Task.SendStatistics {
		t.Fatal("expected send_statistics overridden to true")
	}
	if c.Connector.DefaultCapacity != 50 {
		t.Fatalf("unrelated default should survive, got %d", c.Connector.DefaultCapacity)
	}
}
