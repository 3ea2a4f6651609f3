package models

import "time"

// OutcomeStatus tags the result of running one scanner.
type OutcomeStatus string

const (
	// OutcomeCompleted means the tool ran; Findings may be empty.
	OutcomeCompleted OutcomeStatus = "completed"
	// OutcomeMissing means the tool executable could not be found.
	OutcomeMissing OutcomeStatus = "missing"
	// OutcomeFailed means the tool ran but could not be evaluated.
	OutcomeFailed OutcomeStatus = "failed"
)

// FailureReason qualifies an OutcomeFailed.
type FailureReason string

const (
	ReasonNone       FailureReason = ""
	ReasonMalformed  FailureReason = "malformed output"
	ReasonTimeout    FailureReason = "timeout"
	ReasonExitStatus FailureReason = "exit status"
	ReasonSpawn      FailureReason = "spawn"
	ReasonCanceled   FailureReason = "canceled"
)

// Outcome is the per-scanner result: completed with findings, missing, or
// failed with a message.
type Outcome struct {
	Status   OutcomeStatus `json:"status"             yaml:"status"`
	Findings []Finding     `json:"findings,omitempty" yaml:"findings,omitempty"`
	Reason   FailureReason `json:"reason,omitempty"   yaml:"reason,omitempty"`
	Message  string        `json:"message,omitempty"  yaml:"message,omitempty"`
	ExitCode int           `json:"exit_code"          yaml:"exit_code"`
	Duration time.Duration `json:"duration"           yaml:"duration"`
}

// Success returns a completed outcome. A nil slice is normalised to empty.
func Success(findings []Finding) Outcome {
	if findings == nil {
		findings = []Finding{}
	}
	return Outcome{Status: OutcomeCompleted, Findings: findings}
}

// ToolMissing returns an outcome for a scanner binary that is not installed.
func ToolMissing(message string) Outcome {
	return Outcome{Status: OutcomeMissing, Message: message}
}

// ExecutionFailed returns an outcome for a scanner that could not be evaluated.
func ExecutionFailed(reason FailureReason, message string) Outcome {
	if message == "" {
		message = string(reason)
	}
	return Outcome{Status: OutcomeFailed, Reason: reason, Message: message}
}

// Evaluated reports whether the tool produced a usable result.
func (o Outcome) Evaluated() bool {
	return o.Status == OutcomeCompleted
}
