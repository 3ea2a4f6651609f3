package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/CosmoTheDev/artiscan/internal/config"
	"github.com/CosmoTheDev/artiscan/internal/scanner"
	"github.com/spf13/cobra"
)

// installHints tells the user where each scanner comes from. artiscan never
// installs tools itself.
var installHints = map[string]string{
	"trivy":   "https://aquasecurity.github.io/trivy/latest/getting-started/installation/",
	"dockle":  "https://github.com/goodwithtech/dockle#installation",
	"tfsec":   "https://github.com/aquasecurity/tfsec#installation",
	"checkov": "pip install checkov",
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check which scanners and container tooling are available",
	Long: `Checks each supported scanner binary (in the configured bin dir, then PATH)
and whether a Docker daemon is reachable for image builds and the Docker fallback.`,
	RunE: runDoctor,
}

type toolCheck struct {
	name   string
	binary string
	path   string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, headerStyle.Render("=== artiscan doctor ==="))

	cfgPath, _ := config.ConfigPath(cfgFile)
	fmt.Fprint(out, "Config ................... ")
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Fprintln(out, dimStyle.Render("defaults ("+cfgPath+" not found; run 'artiscan onboard')"))
	} else {
		fmt.Fprintln(out, "OK ("+cfgPath+")")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Scanner tools:")
	checks := checkTools(cfg)
	missing := printToolChecks(out, checks)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	fmt.Fprint(out, "\nDocker ................... ")
	version, dockerOK := scanner.DockerServerVersion(ctx, scanner.NewExecRunner(""))
	if dockerOK {
		fmt.Fprintf(out, "OK (v%s)\n", version)
	} else {
		fmt.Fprintln(out, warnStyle.Render("NOT RUNNING (required for 'scan image' builds and --docker-fallback)"))
	}

	fmt.Fprintln(out)
	switch {
	case missing == 0 && dockerOK:
		fmt.Fprintln(out, successStyle.Render("All checks passed. artiscan is ready!"))
	case missing > 0 && dockerOK && cfg.Tools.DockerFallback:
		fmt.Fprintln(out, successStyle.Render("Missing scanners will run through the Docker fallback."))
	default:
		fmt.Fprintln(out, warnStyle.Render("Some checks failed. Missing scanners are reported as warnings in every scan."))
	}
	return nil
}

// checkTools resolves every supported scanner against the configured bin dir
// and per-scanner path overrides.
func checkTools(cfg *config.Config) []toolCheck {
	checks := make([]toolCheck, 0, len(scanner.KnownScanners))
	for _, name := range scanner.KnownScanners {
		bin := cfg.Tools.BinaryFor(name)
		if bin == "" {
			bin = name
		}
		checks = append(checks, toolCheck{
			name:   name,
			binary: bin,
			path:   scanner.LookupBinary(bin, cfg.Tools.BinDir),
		})
	}
	return checks
}

func printToolChecks(out io.Writer, checks []toolCheck) int {
	missing := 0
	for _, c := range checks {
		fmt.Fprintf(out, "  %-10s ... ", c.name)
		if c.path == "" {
			missing++
			fmt.Fprintln(out, failStyle.Render("MISSING")+dimStyle.Render(" (install: "+installHints[c.name]+")"))
			continue
		}
		fmt.Fprintf(out, "OK (%s)\n", c.path)
	}
	return missing
}
