package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Wand.ValueTolerance != 20 {
		t.Errorf("default value tolerance: got %g, want 20", cfg.Wand.ValueTolerance)
	}
	if cfg.Wand.Connectivity != "8-connected" {
		t.Errorf("default connectivity: got %q, want 8-connected", cfg.Wand.Connectivity)
	}
	if cfg.Calibration.PixelWidth != 1.0 || cfg.Calibration.PixelHeight != 1.0 {
		t.Errorf("default calibration: got %gx%g, want 1x1",
			cfg.Calibration.PixelWidth, cfg.Calibration.PixelHeight)
	}

	p, err := cfg.WandParams()
	if err != nil {
		t.Fatalf("WandParams failed: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default params do not validate: %v", err)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Wand.ValueTolerance != DefaultConfig().Wand.ValueTolerance {
		t.Error("missing file did not yield defaults")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
wand:
  valueTolerance: 35
  gradientTolerance: 12
  connectivity: 4-connected
  includeHoles: true
calibration:
  pixelWidth: 0.25
  pixelHeight: 0.5
  unit: um
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Wand.ValueTolerance != 35 {
		t.Errorf("value tolerance: got %g, want 35", cfg.Wand.ValueTolerance)
	}
	if !cfg.Wand.IncludeHoles {
		t.Error("includeHoles not loaded")
	}
	// Untouched sections keep their defaults.
	if cfg.Render.OutlineColor != "#FFFF00" {
		t.Errorf("outline color: got %q, want default", cfg.Render.OutlineColor)
	}

	p, err := cfg.WandParams()
	if err != nil {
		t.Fatalf("WandParams failed: %v", err)
	}
	if p.Connectivity != wand.FourConnected {
		t.Errorf("connectivity: got %v, want 4-connected", p.Connectivity)
	}

	cal := cfg.WandCalibration()
	if cal == nil {
		t.Fatal("calibration: got nil, want configured values")
	}
	if cal.PixelWidth != 0.25 || cal.PixelHeight != 0.5 || cal.Unit != "um" {
		t.Errorf("calibration: got %+v", cal)
	}
}

func TestLoadConfig_BadConnectivity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("wand:\n  connectivity: 6-connected\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for unknown connectivity")
	}
}

func TestWandCalibration_Uncalibrated(t *testing.T) {
	if cal := DefaultConfig().WandCalibration(); cal != nil {
		t.Errorf("default calibration: got %+v, want nil", cal)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wand.ValueTolerance = 42
	cfg.Calibration.Unit = "mm"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Wand.ValueTolerance != 42 {
		t.Errorf("round-tripped tolerance: got %g, want 42", loaded.Wand.ValueTolerance)
	}
	if loaded.Calibration.Unit != "mm" {
		t.Errorf("round-tripped unit: got %q, want mm", loaded.Calibration.Unit)
	}
}
