package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "artiscan",
	Short: "Run container and infrastructure-as-code scanners and merge their findings",
	Long: `artiscan drives external security scanners against a container image or an
infrastructure-as-code directory and prints one severity-ranked report.

Image scans build the image with docker and run trivy and dockle against it.
IaC scans run tfsec and checkov against a Terraform directory. A scanner that
is not installed or fails is reported as a warning; it never hides findings
from the others.

Get started:
  artiscan onboard              Interactive setup wizard
  artiscan doctor               Check which scanners are available
  artiscan scan image ./app     Build and scan a container image
  artiscan scan iac ./infra     Scan Terraform files`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.artiscan/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose/debug output")

	rootCmd.Version = Version
	rootCmd.AddCommand(
		onboardCmd,
		scanCmd,
		configCmd,
		doctorCmd,
	)
}

func initLogging() {
	if verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Verbose logging enabled")
		return
	}
	slog.SetLogLoggerLevel(slog.LevelWarn)
}
