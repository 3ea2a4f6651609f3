package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".artiscan"
	DefaultConfigFile = "config.json"
	DefaultBinDir     = ".artiscan/bin"
	DefaultTimeout    = 5 * time.Minute
	DefaultManifest   = "Dockerfile"
	DefaultIaCGlob    = "*.tf"
	EnvPrefix         = "ARTISCAN"
)

var (
	DefaultImageScanners = []string{"trivy", "dockle"}
	DefaultIaCScanners   = []string{"tfsec", "checkov"}
)

// Load reads the config file and returns a populated Config. A missing file
// is not an error: defaults apply. configPath overrides the default location.
func Load(configPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(home, DefaultConfigDir))
	}

	setDefaults(v, home)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	expandPaths(&cfg, home)
	applyFallbacks(&cfg)
	return &cfg, nil
}

// Defaults returns the configuration used when no file or environment
// overrides exist.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	v := viper.New()
	setDefaults(v, home)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	expandPaths(&cfg, home)
	applyFallbacks(&cfg)
	return &cfg
}

// Save writes the config to disk as JSON.
func Save(cfg *Config, configPath string) error {
	path, err := ConfigPath(configPath)
	if err != nil {
		return fmt.Errorf("cannot determine home directory: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("serialising config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// ConfigPath returns the effective config file path.
func ConfigPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile), nil
}

// setDefaults populates viper with out-of-the-box values.
func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("tools.bin_dir", filepath.Join(home, DefaultBinDir))
	v.SetDefault("tools.docker_fallback", false)
	v.SetDefault("tools.paths", map[string]string{})

	v.SetDefault("scan.timeout", DefaultTimeout)
	v.SetDefault("scan.image_scanners", DefaultImageScanners)
	v.SetDefault("scan.iac_scanners", DefaultIaCScanners)
	v.SetDefault("scan.manifest", DefaultManifest)
	v.SetDefault("scan.iac_glob", DefaultIaCGlob)

	v.SetDefault("output.format", "table")
	v.SetDefault("output.color", true)
}

// applyFallbacks repairs values a hand-edited file may have blanked out.
func applyFallbacks(cfg *Config) {
	if cfg.Scan.Timeout <= 0 {
		cfg.Scan.Timeout = DefaultTimeout
	}
	if len(cfg.Scan.ImageScanners) == 0 {
		cfg.Scan.ImageScanners = append([]string(nil), DefaultImageScanners...)
	}
	if len(cfg.Scan.IaCScanners) == 0 {
		cfg.Scan.IaCScanners = append([]string(nil), DefaultIaCScanners...)
	}
	if cfg.Scan.Manifest == "" {
		cfg.Scan.Manifest = DefaultManifest
	}
	if cfg.Scan.IaCGlob == "" {
		cfg.Scan.IaCGlob = DefaultIaCGlob
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "table"
	}
}

// expandPaths resolves ~ in configured paths.
func expandPaths(cfg *Config, home string) {
	cfg.Tools.BinDir = expandHome(cfg.Tools.BinDir, home)
	for name, p := range cfg.Tools.Paths {
		cfg.Tools.Paths[name] = expandHome(p, home)
	}
}

func expandHome(path, home string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}

func isNotExist(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file")
}
