package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/CosmoTheDev/artiscan/internal/config"
	"github.com/CosmoTheDev/artiscan/internal/report"
	"github.com/CosmoTheDev/artiscan/internal/scanner"
	"github.com/CosmoTheDev/artiscan/internal/session"
	"github.com/CosmoTheDev/artiscan/internal/tui"
	"github.com/spf13/cobra"
)

var outputFormats = []string{"table", "json", "yaml", "tui"}

var (
	scanScanners       []string
	scanOutputFmt      string
	scanTimeout        time.Duration
	scanNoColor        bool
	scanDockerFallback bool
	scanTag            string
	scanSkipBuild      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a container image or an infrastructure-as-code directory",
}

var scanImageCmd = &cobra.Command{
	Use:   "image [context-dir]",
	Short: "Build a container image and scan it with trivy and dockle",
	Long: `Builds the image from the Dockerfile in context-dir with docker build, then runs
the configured image scanners against the tag.

Examples:
  artiscan scan image ./app
  artiscan scan image ./app --tag registry.local/app:dev
  artiscan scan image --skip-build --tag nginx:1.25
  artiscan scan image ./app --scanners trivy --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		tag := scanTag
		if tag == "" && !scanSkipBuild {
			tag = defaultImageTag(dir)
		}
		target := scanner.Target{Kind: scanner.TargetImage, Path: dir, Image: tag, SkipBuild: scanSkipBuild}
		return runScan(cmd, target)
	},
}

var scanIaCCmd = &cobra.Command{
	Use:   "iac [dir]",
	Short: "Scan Terraform files with tfsec and checkov",
	Long: `Runs the configured IaC scanners against a directory containing Terraform files.

Examples:
  artiscan scan iac ./infra
  artiscan scan iac ./infra --scanners checkov --timeout 10m`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return runScan(cmd, scanner.Target{Kind: scanner.TargetDirectory, Path: dir})
	},
}

func init() {
	pf := scanCmd.PersistentFlags()
	pf.StringSliceVar(&scanScanners, "scanners", nil, "Comma-separated list of scanners to run (overrides config)")
	pf.StringVarP(&scanOutputFmt, "output", "o", "", "Output format: table|json|yaml|tui (default from config)")
	pf.DurationVar(&scanTimeout, "timeout", 0, "Per-scanner timeout (default from config, 5m)")
	pf.BoolVar(&scanNoColor, "no-color", false, "Disable coloured table output")
	pf.BoolVar(&scanDockerFallback, "docker-fallback", false, "Run a scanner's container image when its binary is missing")

	scanImageCmd.Flags().StringVarP(&scanTag, "tag", "t", "", "Image tag to build and scan (default: <dir>:latest)")
	scanImageCmd.Flags().BoolVar(&scanSkipBuild, "skip-build", false, "Scan an existing image given by --tag instead of building")

	scanCmd.AddCommand(scanImageCmd, scanIaCCmd)
}

func runScan(cmd *cobra.Command, target scanner.Target) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	format := cfg.Output.Format
	if cmd.Flags().Changed("output") {
		format = scanOutputFmt
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if !validFormat(format) {
		return fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(outputFormats, ", "))
	}

	names := cfg.Scan.IaCScanners
	if target.Kind == scanner.TargetImage {
		names = cfg.Scan.ImageScanners
	}
	if len(scanScanners) > 0 {
		names = scanScanners
	}
	adapters, err := scanner.BuildScanners(names, cfg.Tools.Paths)
	if err != nil {
		return err
	}

	timeout := cfg.Scan.Timeout
	if cmd.Flags().Changed("timeout") {
		timeout = scanTimeout
	}
	fallback := cfg.Tools.DockerFallback
	if cmd.Flags().Changed("docker-fallback") {
		fallback = scanDockerFallback
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := scanner.NewExecRunner(cfg.Tools.BinDir)
	sess := session.New(runner, scanner.NewDockerBuilder(runner), session.Options{
		Timeout:        timeout,
		DockerFallback: fallback,
		Manifest:       cfg.Scan.Manifest,
		IaCGlob:        cfg.Scan.IaCGlob,
	})

	slog.Debug("Scan configured",
		"target", target.String(),
		"scanners", strings.Join(names, ","),
		"timeout", timeout.String(),
		"docker_fallback", fallback,
	)

	if format == "table" {
		fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render(fmt.Sprintf("Scanning %s with %s...", target.Subject(), strings.Join(names, ", "))))
	}

	rep, err := sess.Run(ctx, target, adapters)
	if err != nil {
		return err
	}

	color := cfg.Output.Color && !scanNoColor && os.Getenv("NO_COLOR") == ""
	return writeReport(cmd.OutOrStdout(), rep, format, color)
}

func writeReport(w io.Writer, rep *report.Report, format string, color bool) error {
	switch format {
	case "json":
		return report.WriteJSON(w, rep)
	case "yaml":
		return report.WriteYAML(w, rep)
	case "tui":
		return tui.NewApp(rep).Run()
	default:
		report.NewRenderer(report.NewWriterSink(w), color).Render(rep)
		return nil
	}
}

func validFormat(format string) bool {
	for _, f := range outputFormats {
		if f == format {
			return true
		}
	}
	return false
}

var tagUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

// defaultImageTag derives "<dir name>:latest" from a build context path,
// reduced to characters docker accepts in a repository name.
func defaultImageTag(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	name := strings.ToLower(filepath.Base(dir))
	name = tagUnsafe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-._")
	if name == "" {
		name = "artiscan-scan"
	}
	return name + ":latest"
}
