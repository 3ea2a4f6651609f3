package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/CosmoTheDev/artiscan/models"
)

// CheckovScanner implements Adapter using checkov for IaC policy checks.
type CheckovScanner struct {
	bin string
}

func NewCheckovScanner(bin string) *CheckovScanner {
	if bin == "" {
		bin = "checkov"
	}
	return &CheckovScanner{bin: bin}
}

func (c *CheckovScanner) Name() string             { return "checkov" }
func (c *CheckovScanner) Tool() models.Tool        { return models.ToolCheckov }
func (c *CheckovScanner) TargetKind() TargetKind   { return TargetDirectory }
func (c *CheckovScanner) Binary() string           { return c.bin }
func (c *CheckovScanner) DockerImage() string      { return "bridgecrew/checkov:latest" }
func (c *CheckovScanner) ExitPolicy() ExitPolicy   { return DefaultExitPolicy }
func (c *CheckovScanner) Args(dir string) []string { return []string{"-d", dir, "-o", "json"} }

// checkovReport is one framework's report. Checkov prints a bare object for a
// single framework and a list of them when several frameworks ran; a
// summary-only object has no "results" key.
type checkovReport struct {
	CheckType string `json:"check_type"`
	Results   struct {
		FailedChecks []struct {
			CheckID   string `json:"check_id"`
			CheckName string `json:"check_name"`
			Resource  string `json:"resource"`
			Severity  string `json:"severity"`
			Guideline string `json:"guideline"`
		} `json:"failed_checks"`
	} `json:"results"`
}

func (c *CheckovScanner) Parse(data []byte) ([]models.Finding, error) {
	reports, err := decodeCheckovReports(data)
	if err != nil {
		return nil, err
	}

	findings := []models.Finding{}
	for _, rep := range reports {
		for _, fc := range rep.Results.FailedChecks {
			findings = append(findings, models.NewFinding(models.ToolCheckov,
				fc.Severity, fc.CheckID, fc.Resource, fc.CheckName, fc.Guideline))
		}
	}
	return findings, nil
}

func decodeCheckovReports(data []byte) ([]checkovReport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []checkovReport
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("parsing checkov JSON list: %w", err)
		}
		return list, nil
	}
	var single checkovReport
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("parsing checkov JSON: %w", err)
	}
	return []checkovReport{single}, nil
}
