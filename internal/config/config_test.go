package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Config()
	if cfg.Settings.TaxRate != DefaultTaxRate {
		t.Errorf("TaxRate = %v, want %v", cfg.Settings.TaxRate, DefaultTaxRate)
	}
	if cfg.Theme.TimerTopmost {
		t.Error("TimerTopmost should default to false")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "settings:\n  tax_rate: 0.3\ntheme:\n  timer_topmost: true\npaths:\n  data_dir: " + dir + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg := m.Config()
	if cfg.Settings.TaxRate != 0.3 || !cfg.Theme.TimerTopmost || cfg.Paths.DataDir != dir {
		t.Errorf("Config() = %+v", cfg)
	}
}

func TestLoadRejectsBadTaxRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("settings:\n  tax_rate: 1.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load should reject a tax rate above 1")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SHYFT_SETTINGS_TAX_RATE", "0.1")
	m, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := m.Config().Settings.TaxRate; got != 0.1 {
		t.Errorf("TaxRate = %v, want 0.1 from env", got)
	}
}

func TestSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{KeyTaxRate, "0.25", false},
		{KeyTaxRate, "2", true},
		{KeyTaxRate, "abc", true},
		{KeyTimerTopmost, "true", false},
		{KeyTimerTopmost, "maybe", true},
		{KeyDataDir, " ", true},
		{"settings.unknown", "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := m.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%s, %s) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg := reloaded.Config()
	if cfg.Settings.TaxRate != 0.25 || !cfg.Theme.TimerTopmost {
		t.Errorf("persisted config = %+v", cfg)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "timer_topmost: true") {
		t.Errorf("file content:\n%s", raw)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("expandHome(~/data) = %s", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %s", got)
	}
}
