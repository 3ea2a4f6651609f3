// Package report merges scanner outcomes into one severity-ranked report and
// renders it.
package report

import (
	"sort"
	"time"

	"github.com/CosmoTheDev/artiscan/models"
)

// LabeledOutcome pairs a scanner label with what it produced.
type LabeledOutcome struct {
	Label   string
	Tool    models.Tool
	Outcome models.Outcome
}

// Warning surfaces a scanner that could not be evaluated.
type Warning struct {
	Scanner string               `json:"scanner" yaml:"scanner"`
	Status  models.OutcomeStatus `json:"status" yaml:"status"`
	Reason  models.FailureReason `json:"reason,omitempty" yaml:"reason,omitempty"`
	Message string               `json:"message" yaml:"message"`
}

// ToolStatus summarises one scanner run.
type ToolStatus struct {
	Scanner  string               `json:"scanner" yaml:"scanner"`
	Status   models.OutcomeStatus `json:"status" yaml:"status"`
	Findings int                  `json:"findings" yaml:"findings"`
	ExitCode int                  `json:"exit_code" yaml:"exit_code"`
	Duration time.Duration        `json:"duration" yaml:"duration"`
}

// Report is the aggregated result of one scan session.
type Report struct {
	ScanID     string           `json:"scan_id,omitempty" yaml:"scan_id,omitempty"`
	Target     string           `json:"target" yaml:"target"`
	StartedAt  time.Time        `json:"started_at,omitzero" yaml:"started_at,omitempty"`
	FinishedAt time.Time        `json:"finished_at,omitzero" yaml:"finished_at,omitempty"`
	Findings   []models.Finding `json:"findings" yaml:"findings"`
	Warnings   []Warning        `json:"warnings" yaml:"warnings"`
	Tools      []ToolStatus     `json:"tools" yaml:"tools"`
}

// Aggregate concatenates the findings of every completed outcome and orders
// them by severity rank, then tool, then identifier. Missing and failed
// outcomes become warnings in input order. Input findings are copied, never
// modified, so aggregating the same outcomes twice yields identical reports.
func Aggregate(target string, outcomes []LabeledOutcome) *Report {
	rep := &Report{
		Target:   target,
		Findings: []models.Finding{},
		Warnings: []Warning{},
		Tools:    make([]ToolStatus, 0, len(outcomes)),
	}

	for _, lo := range outcomes {
		o := lo.Outcome
		rep.Tools = append(rep.Tools, ToolStatus{
			Scanner:  lo.Label,
			Status:   o.Status,
			Findings: len(o.Findings),
			ExitCode: o.ExitCode,
			Duration: o.Duration,
		})
		switch o.Status {
		case models.OutcomeCompleted:
			rep.Findings = append(rep.Findings, o.Findings...)
		default:
			rep.Warnings = append(rep.Warnings, Warning{
				Scanner: lo.Label,
				Status:  o.Status,
				Reason:  o.Reason,
				Message: o.Message,
			})
		}
	}

	sort.SliceStable(rep.Findings, func(i, j int) bool {
		a, b := rep.Findings[i], rep.Findings[j]
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra < rb
		}
		if a.Tool != b.Tool {
			return a.Tool < b.Tool
		}
		return a.Identifier < b.Identifier
	})
	return rep
}

// Clean reports whether every scanner ran and none found anything.
func (r *Report) Clean() bool {
	return len(r.Findings) == 0 && len(r.Warnings) == 0
}

// Counts returns the number of findings per severity level.
func (r *Report) Counts() map[models.SeverityLevel]int {
	counts := make(map[models.SeverityLevel]int, len(models.Severities))
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// Evaluated returns how many scanners produced a usable result.
func (r *Report) Evaluated() int {
	n := 0
	for _, t := range r.Tools {
		if t.Status == models.OutcomeCompleted {
			n++
		}
	}
	return n
}
