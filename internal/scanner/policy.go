package scanner

import (
	"bytes"
	"encoding/json"

	"github.com/CosmoTheDev/artiscan/models"
)

// StdoutClass describes what a scanner printed on stdout.
type StdoutClass int

const (
	StdoutEmpty StdoutClass = iota
	StdoutJSON
	StdoutInvalid
)

func (c StdoutClass) String() string {
	switch c {
	case StdoutEmpty:
		return "empty"
	case StdoutJSON:
		return "json"
	default:
		return "invalid"
	}
}

// ClassifyStdout reports whether out is empty, valid JSON, or anything else.
func ClassifyStdout(out []byte) StdoutClass {
	trimmed := bytes.TrimSpace(out)
	switch {
	case len(trimmed) == 0:
		return StdoutEmpty
	case json.Valid(trimmed):
		return StdoutJSON
	default:
		return StdoutInvalid
	}
}

// Verdict is what a scanner run amounts to before its findings are parsed.
type Verdict int

const (
	// VerdictAccept means stdout should be parsed for findings.
	VerdictAccept Verdict = iota
	// VerdictFail means the run could not be evaluated.
	VerdictFail
)

// ExitRule maps an inclusive exit code range and a stdout class to a verdict.
type ExitRule struct {
	MinCode int
	MaxCode int
	Stdout  StdoutClass
	Verdict Verdict
	Reason  models.FailureReason
}

func (r ExitRule) matches(code int, class StdoutClass) bool {
	return code >= r.MinCode && code <= r.MaxCode && class == r.Stdout
}

// ExitPolicy is an ordered rule table; the first matching rule wins.
type ExitPolicy []ExitRule

// Lookup returns the rule for code and class. Unmatched combinations fail
// with ReasonExitStatus.
func (p ExitPolicy) Lookup(code int, class StdoutClass) ExitRule {
	for _, r := range p {
		if r.matches(code, class) {
			return r
		}
	}
	return ExitRule{
		MinCode: code,
		MaxCode: code,
		Stdout:  class,
		Verdict: VerdictFail,
		Reason:  models.ReasonExitStatus,
	}
}

// DefaultExitPolicy treats any exit status as "ran, maybe found issues" as
// long as stdout is JSON. The scanners wrapped here all overload non-zero to
// mean both "crashed" and "found something".
var DefaultExitPolicy = ExitPolicy{
	{MinCode: 0, MaxCode: 0, Stdout: StdoutJSON, Verdict: VerdictAccept},
	{MinCode: 0, MaxCode: 0, Stdout: StdoutEmpty, Verdict: VerdictAccept},
	{MinCode: 0, MaxCode: 0, Stdout: StdoutInvalid, Verdict: VerdictFail, Reason: models.ReasonMalformed},
	{MinCode: 1, MaxCode: 255, Stdout: StdoutJSON, Verdict: VerdictAccept},
	{MinCode: 1, MaxCode: 255, Stdout: StdoutEmpty, Verdict: VerdictFail, Reason: models.ReasonExitStatus},
	{MinCode: 1, MaxCode: 255, Stdout: StdoutInvalid, Verdict: VerdictFail, Reason: models.ReasonExitStatus},
}
