package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Datasets.Path != "./datasets" {
		t.Errorf("unexpected default datasets path %q", cfg.Datasets.Path)
	}
	if cfg.Datasets.Glob != "*.json" {
		t.Errorf("unexpected default glob %q", cfg.Datasets.Glob)
	}
	if !cfg.Extract.Windows || !cfg.Extract.Srcrcv || !cfg.Extract.Misfits {
		t.Error("expected all extractors enabled by default")
	}
	if cfg.Snapshot.Tag != "misfitlens" {
		t.Errorf("unexpected default snapshot tag %q", cfg.Snapshot.Tag)
	}
	if cfg.UTMZone != -60 {
		t.Errorf("unexpected default utm zone %d", cfg.UTMZone)
	}
	if cfg.Exclude != nil {
		t.Error("expected no default exclude block")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Snapshot.Tag != "misfitlens" {
		t.Errorf("expected defaults, got tag %q", cfg.Snapshot.Tag)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
datasets:
  path: /data/inversion
utm_zone: 11
snapshot:
  tag: trial01
extract:
  misfits: false
exclude:
  coords: [-42.0, -38.0, 173.0, 179.0]
  mag_min: 4.5
  starttime: "2018-01-01T00:00:00Z"
`
	path := filepath.Join(dir, "misfitlens.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Datasets.Path != "/data/inversion" {
		t.Errorf("unexpected datasets path %q", cfg.Datasets.Path)
	}
	// Omitted fields keep their defaults.
	if cfg.Datasets.Glob != "*.json" {
		t.Errorf("expected default glob, got %q", cfg.Datasets.Glob)
	}
	if cfg.UTMZone != 11 {
		t.Errorf("unexpected utm zone %d", cfg.UTMZone)
	}
	if cfg.Snapshot.Tag != "trial01" {
		t.Errorf("unexpected snapshot tag %q", cfg.Snapshot.Tag)
	}
	if cfg.Extract.Misfits {
		t.Error("expected misfit extraction disabled")
	}
	if cfg.Exclude == nil {
		t.Fatal("expected exclude block")
	}
	if len(cfg.Exclude.Coords) != 4 {
		t.Errorf("unexpected exclude coords %v", cfg.Exclude.Coords)
	}
	if cfg.Exclude.MagMin == nil || *cfg.Exclude.MagMin != 4.5 {
		t.Error("unexpected exclude mag_min")
	}
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	content := "utm_zone: 59\n"
	if err := os.WriteFile(filepath.Join(dir, "misfitlens.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.UTMZone != 59 {
		t.Errorf("unexpected utm zone %d", cfg.UTMZone)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero utm zone", "utm_zone: 0\n"},
		{"utm zone too large", "utm_zone: 61\n"},
		{"empty glob", "datasets:\n  glob: \"\"\n"},
		{"empty snapshot tag", "snapshot:\n  tag: \"\"\n"},
		{"short exclude coords", "exclude:\n  coords: [1.0, 2.0]\n"},
		{"malformed yaml", "datasets: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "misfitlens.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
