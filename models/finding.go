package models

import "strings"

// NotAvailable fills any Finding field the source tool left empty.
const NotAvailable = "N/A"

// Tool identifies which scanner produced a finding.
type Tool string

const (
	ToolTrivy   Tool = "trivy"   // image vulnerability scanner
	ToolDockle  Tool = "dockle"  // image hygiene scanner
	ToolTfsec   Tool = "tfsec"   // IaC misconfiguration scanner
	ToolCheckov Tool = "checkov" // IaC misconfiguration scanner
)

func (t Tool) String() string {
	return string(t)
}

// Finding is one normalised observation from a scanner. Values are
// treated as immutable once an adapter returns them.
type Finding struct {
	Tool        Tool          `json:"tool"        yaml:"tool"`
	Severity    SeverityLevel `json:"severity"    yaml:"severity"`
	Identifier  string        `json:"identifier"  yaml:"identifier"`  // CVE id, check code or rule id
	Subject     string        `json:"subject"     yaml:"subject"`     // package, Dockerfile or resource address
	Title       string        `json:"title"       yaml:"title"`
	Remediation string        `json:"remediation" yaml:"remediation"` // fixed version or guideline link
}

// NewFinding builds a fully populated Finding, normalising the raw
// severity and replacing blank fields with NotAvailable.
func NewFinding(tool Tool, rawSeverity, identifier, subject, title, remediation string) Finding {
	return Finding{
		Tool:        tool,
		Severity:    MapSeverity(rawSeverity),
		Identifier:  orNA(identifier),
		Subject:     orNA(subject),
		Title:       orNA(title),
		Remediation: orNA(remediation),
	}
}

// HasRemediation reports whether the tool supplied a remediation hint.
func (f Finding) HasRemediation() bool {
	return f.Remediation != NotAvailable
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotAvailable
	}
	return s
}
