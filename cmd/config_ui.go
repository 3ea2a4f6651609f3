package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/CosmoTheDev/artiscan/internal/config"
	"github.com/CosmoTheDev/artiscan/internal/scanner"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var configUICmd = &cobra.Command{
	Use:   "edit-ui",
	Short: "Interactive configuration editor",
	Long: `Launches an interactive form to edit artiscan settings section by section.

Sections:
  - Scan: image and IaC scanners, per-scanner timeout, manifest, IaC file pattern
  - Tools: binary directory, Docker fallback
  - Output: default format, colour
`,
	RunE: runConfigUI,
}

func runConfigUI(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  artiscan · Configuration Editor"))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	selected := "scan"
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Configuration Section").
				Description("Select a section to edit").
				Options(
					huh.NewOption("Scan", "scan"),
					huh.NewOption("Tools", "tools"),
					huh.NewOption("Output", "output"),
				).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	return runSectionEditor(cfg, selected)
}

func runSectionEditor(cfg *config.Config, section string) error {
	var err error
	switch section {
	case "scan":
		err = editScanSettings(cfg)
	case "tools":
		err = editToolsSettings(cfg)
	case "output":
		err = editOutputSettings(cfg)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	if err != nil {
		return err
	}

	save := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save changes?").
				Value(&save),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !save {
		fmt.Println(dimStyle.Render("  Changes discarded"))
		return nil
	}

	configPath, err := config.ConfigPath(cfgFile)
	if err != nil {
		return fmt.Errorf("getting config path: %w", err)
	}
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Println(successStyle.Render("  ✓ Configuration saved"))
	return nil
}

func scannerOptions(kind scanner.TargetKind) []huh.Option[string] {
	adapters, _ := scanner.BuildScanners(scanner.KnownScanners, nil)
	var opts []huh.Option[string]
	for _, a := range adapters {
		if a.TargetKind() == kind {
			opts = append(opts, huh.NewOption(a.Name(), a.Name()))
		}
	}
	return opts
}

func editScanSettings(cfg *config.Config) error {
	fmt.Println(sectionStyle.Render("  Scan Settings"))

	imageScanners := append([]string(nil), cfg.Scan.ImageScanners...)
	iacScanners := append([]string(nil), cfg.Scan.IaCScanners...)
	timeout := cfg.Scan.Timeout.String()
	manifest := cfg.Scan.Manifest
	glob := cfg.Scan.IaCGlob

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Image scanners").
				Description("Run in this order by 'artiscan scan image'").
				Options(scannerOptions(scanner.TargetImage)...).
				Value(&imageScanners),
			huh.NewMultiSelect[string]().
				Title("IaC scanners").
				Description("Run in this order by 'artiscan scan iac'").
				Options(scannerOptions(scanner.TargetDirectory)...).
				Value(&iacScanners),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Per-scanner timeout").
				Description("Go duration, e.g. 90s, 5m, 1h").
				Placeholder(config.DefaultTimeout.String()).
				Validate(validateDuration).
				Value(&timeout),
			huh.NewInput().
				Title("Build manifest").
				Description("File an image build context must contain").
				Placeholder(config.DefaultManifest).
				Value(&manifest),
			huh.NewInput().
				Title("IaC file pattern").
				Description("Matched against file names below the scanned directory").
				Placeholder(config.DefaultIaCGlob).
				Value(&glob),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Scan.ImageScanners = imageScanners
	cfg.Scan.IaCScanners = iacScanners
	cfg.Scan.Timeout = parseDurationOrDefault(timeout, config.DefaultTimeout)
	cfg.Scan.Manifest = orDefault(manifest, config.DefaultManifest)
	cfg.Scan.IaCGlob = orDefault(glob, config.DefaultIaCGlob)
	return nil
}

func editToolsSettings(cfg *config.Config) error {
	fmt.Println(sectionStyle.Render("  Tools Settings"))

	binDir := cfg.Tools.BinDir
	fallback := cfg.Tools.DockerFallback

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Binary Directory").
				Description("Searched before $PATH for scanner executables").
				Placeholder("~/" + config.DefaultBinDir).
				Value(&binDir),
			huh.NewConfirm().
				Title("Docker fallback").
				Description("Run a scanner's container image when its binary is not installed").
				Value(&fallback),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Tools.BinDir = strings.TrimSpace(binDir)
	cfg.Tools.DockerFallback = fallback
	return nil
}

func editOutputSettings(cfg *config.Config) error {
	fmt.Println(sectionStyle.Render("  Output Settings"))

	format := cfg.Output.Format
	color := cfg.Output.Color

	opts := make([]huh.Option[string], 0, len(outputFormats))
	for _, f := range outputFormats {
		opts = append(opts, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default output format").
				Options(opts...).
				Value(&format),
			huh.NewConfirm().
				Title("Coloured table output").
				Value(&color),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Output.Format = format
	cfg.Output.Color = color
	return nil
}

func validateDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("not a duration: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func parseDurationOrDefault(s string, def time.Duration) time.Duration {
	if validateDuration(s) != nil || strings.TrimSpace(s) == "" {
		return def
	}
	d, _ := time.ParseDuration(strings.TrimSpace(s))
	return d
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
