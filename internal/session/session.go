// Package session runs a set of scanners against one target and aggregates
// what they report.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CosmoTheDev/artiscan/internal/config"
	"github.com/CosmoTheDev/artiscan/internal/report"
	"github.com/CosmoTheDev/artiscan/internal/scanner"
	"github.com/CosmoTheDev/artiscan/models"
	"github.com/google/uuid"
)

// ImageBuilder builds the container image an image scan examines.
type ImageBuilder interface {
	Build(ctx context.Context, contextDir, tag string) error
}

// Options configures a Session. Zero values fall back to the config defaults.
type Options struct {
	// Timeout bounds each scanner invocation separately.
	Timeout        time.Duration
	DockerFallback bool
	// Manifest is the file an image build context must contain.
	Manifest string
	// IaCGlob matches the files a directory target must contain.
	IaCGlob string
}

// Session orchestrates one scan: validate, build, run scanners in order and
// aggregate their outcomes.
type Session struct {
	runner  scanner.ProcessRunner
	builder ImageBuilder
	opts    Options

	now   func() time.Time
	newID func() string
}

// New creates a Session.
func New(runner scanner.ProcessRunner, builder ImageBuilder, opts Options) *Session {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.Manifest == "" {
		opts.Manifest = config.DefaultManifest
	}
	if opts.IaCGlob == "" {
		opts.IaCGlob = config.DefaultIaCGlob
	}
	return &Session{
		runner:  runner,
		builder: builder,
		opts:    opts,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run scans target with every adapter whose target kind matches. Per-scanner
// failures are reported as warnings on the returned report; only an invalid
// target, a failed build or a lack of applicable scanners is returned as an
// error, in which case no report is produced.
func (s *Session) Run(ctx context.Context, target scanner.Target, adapters []scanner.Adapter) (*report.Report, error) {
	applicable := make([]scanner.Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a.TargetKind() != target.Kind {
			slog.Warn("Skipping scanner for target kind",
				"scanner", a.Name(),
				"scanner_kind", a.TargetKind(),
				"target_kind", target.Kind,
			)
			continue
		}
		applicable = append(applicable, a)
	}

	if err := s.validate(target); err != nil {
		return nil, err
	}
	if len(applicable) == 0 {
		return nil, fmt.Errorf("%w for %s targets", ErrNoScanners, target.Kind)
	}

	scanID := s.newID()
	started := s.now().UTC()
	slog.Info("Starting scan",
		"scan_id", scanID,
		"target", target.String(),
		"scanners", len(applicable),
	)

	if target.Kind == scanner.TargetImage && !target.SkipBuild {
		slog.Info("Building image", "tag", target.Image, "context", target.Path)
		if err := s.builder.Build(ctx, target.Path, target.Image); err != nil {
			return nil, &BuildError{Tag: target.Image, Err: err}
		}
	}

	outcomes := s.runSequential(ctx, target, applicable)

	rep := report.Aggregate(target.Subject(), outcomes)
	rep.ScanID = scanID
	rep.StartedAt = started
	rep.FinishedAt = s.now().UTC()

	slog.Info("Scan finished",
		"scan_id", scanID,
		"findings", len(rep.Findings),
		"warnings", len(rep.Warnings),
		"duration", rep.FinishedAt.Sub(started).Round(time.Millisecond).String(),
	)
	return rep, nil
}

func (s *Session) runSequential(ctx context.Context, target scanner.Target, adapters []scanner.Adapter) []report.LabeledOutcome {
	out := make([]report.LabeledOutcome, 0, len(adapters))
	for _, a := range adapters {
		var o models.Outcome
		if ctx.Err() != nil {
			o = models.ExecutionFailed(models.ReasonCanceled, "")
		} else {
			o = s.runOne(ctx, target, a)
		}
		out = append(out, report.LabeledOutcome{Label: a.Name(), Tool: a.Tool(), Outcome: o})
	}
	return out
}

func (s *Session) runOne(ctx context.Context, target scanner.Target, a scanner.Adapter) models.Outcome {
	slog.Info("Running scanner", "scanner", a.Name(), "target", target.Subject())

	runCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	o := scanner.Invoke(runCtx, s.runner, a, target, scanner.InvokeOptions{DockerFallback: s.opts.DockerFallback})
	switch o.Status {
	case models.OutcomeCompleted:
		slog.Info("Scanner completed",
			"scanner", a.Name(),
			"findings", len(o.Findings),
			"duration", fmt.Sprintf("%.1fs", o.Duration.Seconds()),
		)
	case models.OutcomeMissing:
		slog.Warn("Scanner not available", "scanner", a.Name(), "error", o.Message)
	default:
		slog.Error("Scanner failed", "scanner", a.Name(), "reason", o.Reason, "error", o.Message)
	}
	return o
}
