package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Timeout != DefaultTimeout {
		t.Errorf("timeout = %s, want %s", cfg.Scan.Timeout, DefaultTimeout)
	}
	if !reflect.DeepEqual(cfg.Scan.ImageScanners, DefaultImageScanners) {
		t.Errorf("image scanners = %v", cfg.Scan.ImageScanners)
	}
	if !reflect.DeepEqual(cfg.Scan.IaCScanners, DefaultIaCScanners) {
		t.Errorf("iac scanners = %v", cfg.Scan.IaCScanners)
	}
	if cfg.Scan.Manifest != "Dockerfile" || cfg.Scan.IaCGlob != "*.tf" {
		t.Errorf("manifest=%q glob=%q", cfg.Scan.Manifest, cfg.Scan.IaCGlob)
	}
	if cfg.Tools.BinDir != filepath.Join(home, DefaultBinDir) {
		t.Errorf("bin dir = %q", cfg.Tools.BinDir)
	}
	if cfg.Output.Format != "table" || !cfg.Output.Color {
		t.Errorf("output = %+v", cfg.Output)
	}
	if d := Defaults(); d.Scan.Timeout != cfg.Scan.Timeout || d.Tools.BinDir != cfg.Tools.BinDir {
		t.Errorf("Defaults = %+v, Load = %+v", d, cfg)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ARTISCAN_SCAN_MANIFEST", "Containerfile")

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
  "tools": {"bin_dir": "~/bin", "docker_fallback": true, "paths": {"checkov": "~/venv/bin/checkov"}},
  "scan": {"timeout": "90s", "iac_scanners": ["checkov"]},
  "output": {"format": "json", "color": false}
}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.Timeout != 90*time.Second {
		t.Errorf("timeout = %s", cfg.Scan.Timeout)
	}
	if !reflect.DeepEqual(cfg.Scan.IaCScanners, []string{"checkov"}) {
		t.Errorf("iac scanners = %v", cfg.Scan.IaCScanners)
	}
	if !reflect.DeepEqual(cfg.Scan.ImageScanners, DefaultImageScanners) {
		t.Errorf("image scanners = %v, want defaults", cfg.Scan.ImageScanners)
	}
	if cfg.Scan.Manifest != "Containerfile" {
		t.Errorf("manifest = %q, want env override", cfg.Scan.Manifest)
	}
	if cfg.Tools.BinDir != filepath.Join(home, "bin") || !cfg.Tools.DockerFallback {
		t.Errorf("tools = %+v", cfg.Tools)
	}
	if got := cfg.Tools.BinaryFor("checkov"); got != filepath.Join(home, "venv/bin/checkov") {
		t.Errorf("checkov override = %q", got)
	}
	if cfg.Tools.BinaryFor("trivy") != "" {
		t.Error("unexpected trivy override")
	}
	if cfg.Output.Format != "json" || cfg.Output.Color {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"scan": `), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for truncated config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := Defaults()
	cfg.Scan.Timeout = 2 * time.Minute
	cfg.Scan.ImageScanners = []string{"dockle"}
	cfg.Tools.DockerFallback = true
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Scan.Timeout != 2*time.Minute || !reflect.DeepEqual(got.Scan.ImageScanners, []string{"dockle"}) || !got.Tools.DockerFallback {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err := ConfigPath("")
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(home, ".artiscan", "config.json") {
		t.Fatalf("path = %q", p)
	}
	if p, _ := ConfigPath("/etc/artiscan.json"); p != "/etc/artiscan.json" {
		t.Fatalf("override ignored: %q", p)
	}
}
