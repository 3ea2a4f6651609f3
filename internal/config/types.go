package config

import (
	"encoding/json"
	"time"
)

// Config is the root configuration structure for artiscan.
// Serialised to ~/.artiscan/config.json.
type Config struct {
	Tools  ToolsConfig  `mapstructure:"tools"  json:"tools"`
	Scan   ScanConfig   `mapstructure:"scan"   json:"scan"`
	Output OutputConfig `mapstructure:"output" json:"output"`
}

// ToolsConfig controls where scanner binaries live.
type ToolsConfig struct {
	// BinDir is searched before $PATH for scanner executables.
	BinDir string `mapstructure:"bin_dir" json:"bin_dir"`
	// DockerFallback runs a scanner's container image when the local binary is missing.
	DockerFallback bool `mapstructure:"docker_fallback" json:"docker_fallback"`
	// Paths overrides the executable for individual scanners (e.g. "trivy": "/opt/trivy").
	Paths map[string]string `mapstructure:"paths" json:"paths,omitempty"`
}

// ScanConfig controls session behaviour.
type ScanConfig struct {
	// Timeout bounds each scanner invocation.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	// ImageScanners run in order for `scan image`.
	ImageScanners []string `mapstructure:"image_scanners" json:"image_scanners"`
	// IaCScanners run in order for `scan iac`.
	IaCScanners []string `mapstructure:"iac_scanners" json:"iac_scanners"`
	// Manifest must exist in an image build context.
	Manifest string `mapstructure:"manifest" json:"manifest"`
	// IaCGlob must match at least one file under an IaC directory.
	IaCGlob string `mapstructure:"iac_glob" json:"iac_glob"`
}

// OutputConfig controls report presentation.
type OutputConfig struct {
	// Format is "table" (default), "json", "yaml" or "tui".
	Format string `mapstructure:"format" json:"format"`
	Color  bool   `mapstructure:"color"  json:"color"`
}

// BinaryFor returns the configured executable override for a scanner, or "".
func (t ToolsConfig) BinaryFor(name string) string {
	if t.Paths == nil {
		return ""
	}
	return t.Paths[name]
}

// MarshalJSON writes Timeout as a duration string ("5m0s") so saved files
// stay readable and round-trip through Load.
func (s ScanConfig) MarshalJSON() ([]byte, error) {
	type plain ScanConfig
	return json.Marshal(struct {
		plain
		Timeout string `json:"timeout"`
	}{plain: plain(s), Timeout: s.Timeout.String()})
}
