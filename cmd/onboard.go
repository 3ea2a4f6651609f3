package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/CosmoTheDev/artiscan/internal/config"
	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Interactive setup wizard for artiscan",
	Long: `Walks you through configuring artiscan:
  - Which scanners run for image and IaC scans, and their timeout
  - Where scanner binaries live and whether to fall back to Docker images
  - The default report format

Onboarding never installs scanners. Run 'artiscan doctor' afterwards to see
which ones are missing.`,
	RunE: runOnboard,
}

func runOnboard(cmd *cobra.Command, args []string) error {
	fmt.Println()
	fmt.Println(headerStyle.Render("  artiscan · container and IaC scanner orchestration"))
	fmt.Println(dimStyle.Render("  One report from trivy, dockle, tfsec and checkov.\n"))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		slog.Warn("Existing config unreadable, starting from defaults", "error", err)
		cfg = config.Defaults()
	}

	steps := []struct {
		title string
		edit  func(*config.Config) error
	}{
		{"Scanners", editScanSettings},
		{"Tools", editToolsSettings},
		{"Output", editOutputSettings},
	}
	for i, step := range steps {
		fmt.Println(headerStyle.Render(fmt.Sprintf("  Step %d/%d · %s", i+1, len(steps), step.title)))
		if err := step.edit(cfg); err != nil {
			return err
		}
	}

	cfgPath, err := config.ConfigPath(cfgFile)
	if err != nil {
		return fmt.Errorf("getting config path: %w", err)
	}
	if err := config.Save(cfg, cfgPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if cfg.Tools.BinDir != "" {
		if err := os.MkdirAll(cfg.Tools.BinDir, 0o755); err != nil {
			slog.Warn("Could not create bin dir", "path", cfg.Tools.BinDir, "error", err)
		}
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("  Setup complete!"))
	fmt.Printf("  Config saved to: %s\n", dimStyle.Render(cfgPath))
	fmt.Printf("  Binaries in:     %s\n\n", dimStyle.Render(cfg.Tools.BinDir))

	fmt.Println("  Scanner availability:")
	if missing := printToolChecks(os.Stdout, checkTools(cfg)); missing > 0 {
		fmt.Println()
		fmt.Println(warnStyle.Render(fmt.Sprintf("  %d scanner(s) missing. Install them, or enable the Docker fallback.", missing)))
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("  Next steps:"))
	fmt.Println(dimStyle.Render("    artiscan doctor            verify scanners and Docker"))
	fmt.Println(dimStyle.Render("    artiscan scan image <dir>  build and scan a container image (" + strings.Join(cfg.Scan.ImageScanners, ", ") + ")"))
	fmt.Println(dimStyle.Render("    artiscan scan iac <dir>    scan Terraform files (" + strings.Join(cfg.Scan.IaCScanners, ", ") + ")"))
	fmt.Println()

	slog.Debug("Onboarding complete", "config", cfgPath)
	return nil
}
