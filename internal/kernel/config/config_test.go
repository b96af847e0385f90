package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.AgingPeriod != 1500 || cfg.AgingFactor != 10 || cfg.Quantum != 100 {
		t.Fatalf("Default() = %+v, want {1500 10 100}", cfg)
	}
}

func TestSchedulerCoreConfigProjection(t *testing.T) {
	cfg := Default()
	core := cfg.SchedulerCoreConfig()
	if core.AgingPeriod != cfg.AgingPeriod || core.AgingFactor != cfg.AgingFactor {
		t.Fatalf("SchedulerCoreConfig() = %+v, want aging period/factor to match", core)
	}
}

func TestLoadOverridesDefaultsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.json")
	if err := os.WriteFile(path, []byte(`{"quantum_ticks": 50}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Quantum != 50 {
		t.Fatalf("Quantum = %d, want 50 (overridden)", cfg.Quantum)
	}
	if cfg.AgingPeriod != 1500 {
		t.Fatalf("AgingPeriod = %d, want 1500 (kept from defaults)", cfg.AgingPeriod)
	}
}

func TestLoadRejectsNonPositiveAgingPeriod(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scheduler.json")
	if err := os.WriteFile(path, []byte(`{"aging_period_ticks": 0}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load() did not reject a zero aging period")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("Load() did not error on a missing file")
	}
}

func TestMaskedCopyIsIndependent(t *testing.T) {
	cfg := Default()
	cp := cfg.MaskedCopy()
	cp.Quantum = 999

	if cfg.GetQuantum() == 999 {
		t.Fatal("mutating the masked copy affected the original")
	}
}
