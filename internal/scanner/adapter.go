package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CosmoTheDev/artiscan/models"
)

// TargetKind identifies what a scanner examines.
type TargetKind string

const (
	TargetImage     TargetKind = "image"     // a built container image, by tag
	TargetDirectory TargetKind = "directory" // an infrastructure-as-code directory
)

// Target is the artifact a session scans.
type Target struct {
	Kind TargetKind
	// Path is the build context for image targets and the scanned directory
	// for directory targets.
	Path string
	// Image is the tag scanned by image scanners.
	Image string
	// SkipBuild scans an already-built Image without a build context.
	SkipBuild bool
}

// Subject returns what scanners are pointed at: the tag or the directory.
func (t Target) Subject() string {
	if t.Kind == TargetImage {
		return t.Image
	}
	return t.Path
}

func (t Target) String() string {
	return string(t.Kind) + ":" + t.Subject()
}

// Adapter wraps one external scanner: how to invoke it and how to read
// its JSON. To add a scanner, implement Adapter and register it in
// BuildScanners.
type Adapter interface {
	// Name returns the label used in reports (e.g. "trivy").
	Name() string
	// Tool returns the finding source this adapter produces.
	Tool() models.Tool
	// TargetKind returns the kind of target the scanner understands.
	TargetKind() TargetKind
	// Binary returns the executable to run.
	Binary() string
	// Args builds the argument vector for subject (an image tag or directory).
	Args(subject string) []string
	// DockerImage returns the image used for the Docker fallback, or "".
	DockerImage() string
	// ExitPolicy maps exit code and stdout shape to a verdict.
	ExitPolicy() ExitPolicy
	// Parse maps the scanner's JSON into findings.
	Parse(stdout []byte) ([]models.Finding, error)
}

// InvokeOptions tunes a single adapter invocation.
type InvokeOptions struct {
	// DockerFallback runs the adapter's Docker image when the binary is missing.
	DockerFallback bool
}

// Invoke runs one adapter against target and converts every failure mode into
// an Outcome. It never returns an error and never panics on bad output.
func Invoke(ctx context.Context, runner ProcessRunner, a Adapter, target Target, opts InvokeOptions) models.Outcome {
	start := time.Now()
	out := invoke(ctx, runner, a, target, opts)
	out.Duration = time.Since(start)
	return out
}

func invoke(ctx context.Context, runner ProcessRunner, a Adapter, target Target, opts InvokeOptions) models.Outcome {
	cmd := Command{Name: a.Binary(), Args: a.Args(target.Subject())}
	slog.Debug("Executing scanner", "scanner", a.Name(), "command", cmd.String())

	res, err := runner.Run(ctx, cmd)
	if errors.Is(err, ErrToolNotFound) && opts.DockerFallback && a.DockerImage() != "" {
		if isDockerAvailable(ctx, runner) {
			slog.Info("Using Docker fallback", "scanner", a.Name(), "image", a.DockerImage())
			res, err = runner.Run(ctx, dockerCommand(a, target))
		} else {
			slog.Debug("Docker fallback unavailable", "scanner", a.Name())
		}
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrToolNotFound):
		return models.ToolMissing(fmt.Sprintf("%s executable not found", a.Binary()))
	case errors.Is(err, ErrTimeout):
		return models.ExecutionFailed(models.ReasonTimeout, "timeout")
	case errors.Is(err, context.Canceled):
		return models.ExecutionFailed(models.ReasonCanceled, "canceled")
	default:
		return models.ExecutionFailed(models.ReasonSpawn, err.Error())
	}

	if len(bytes.TrimSpace(res.Stderr)) > 0 {
		slog.Debug("Scanner stderr", "scanner", a.Name(), "output", string(res.Stderr))
	}

	class := ClassifyStdout(res.Stdout)
	rule := a.ExitPolicy().Lookup(res.ExitCode, class)
	if rule.Verdict == VerdictFail {
		o := models.ExecutionFailed(rule.Reason, failureMessage(rule.Reason, res))
		o.ExitCode = res.ExitCode
		return o
	}

	if class == StdoutEmpty {
		o := models.Success(nil)
		o.ExitCode = res.ExitCode
		return o
	}

	findings, err := a.Parse(res.Stdout)
	if err != nil {
		slog.Warn("Failed to parse scanner output", "scanner", a.Name(), "error", err)
		o := models.ExecutionFailed(models.ReasonMalformed, "malformed output")
		o.ExitCode = res.ExitCode
		return o
	}
	o := models.Success(findings)
	o.ExitCode = res.ExitCode
	return o
}

func failureMessage(reason models.FailureReason, res ProcessResult) string {
	if reason == models.ReasonMalformed {
		return "malformed output"
	}
	msg := fmt.Sprintf("exit status %d", res.ExitCode)
	if tail := lastLine(res.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// lastLine returns the final non-blank line of b, truncated for display.
func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			if len(l) > 200 {
				l = l[:200] + "…"
			}
			return l
		}
	}
	return ""
}
