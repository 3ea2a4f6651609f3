package scanner

import (
	"encoding/json"
	"fmt"

	"github.com/CosmoTheDev/artiscan/models"
)

// TfsecScanner implements Adapter using tfsec for Terraform misconfigurations.
type TfsecScanner struct {
	bin string
}

func NewTfsecScanner(bin string) *TfsecScanner {
	if bin == "" {
		bin = "tfsec"
	}
	return &TfsecScanner{bin: bin}
}

func (t *TfsecScanner) Name() string             { return "tfsec" }
func (t *TfsecScanner) Tool() models.Tool        { return models.ToolTfsec }
func (t *TfsecScanner) TargetKind() TargetKind   { return TargetDirectory }
func (t *TfsecScanner) Binary() string           { return t.bin }
func (t *TfsecScanner) DockerImage() string      { return "aquasec/tfsec:latest" }
func (t *TfsecScanner) ExitPolicy() ExitPolicy   { return DefaultExitPolicy }
func (t *TfsecScanner) Args(dir string) []string { return []string{dir, "--format", "json"} }

// tfsecOutput mirrors tfsec's JSON report. "results" is null when clean.
type tfsecOutput struct {
	Results []struct {
		RuleID      string   `json:"rule_id"`
		LongID      string   `json:"long_id"`
		Severity    string   `json:"severity"`
		Resource    string   `json:"resource"`
		Description string   `json:"description"`
		Links       []string `json:"links"`
	} `json:"results"`
}

func (t *TfsecScanner) Parse(data []byte) ([]models.Finding, error) {
	var output tfsecOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing tfsec JSON: %w", err)
	}

	findings := make([]models.Finding, 0, len(output.Results))
	for _, r := range output.Results {
		id := r.RuleID
		if id == "" {
			id = r.LongID
		}
		link := ""
		if len(r.Links) > 0 {
			link = r.Links[0]
		}
		findings = append(findings, models.NewFinding(models.ToolTfsec,
			r.Severity, id, r.Resource, r.Description, link))
	}
	return findings, nil
}
