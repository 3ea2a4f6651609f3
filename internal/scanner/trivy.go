package scanner

import (
	"encoding/json"
	"fmt"

	"github.com/CosmoTheDev/artiscan/models"
)

// TrivyScanner implements Adapter using trivy for image vulnerability scanning.
type TrivyScanner struct {
	bin string
}

func NewTrivyScanner(bin string) *TrivyScanner {
	if bin == "" {
		bin = "trivy"
	}
	return &TrivyScanner{bin: bin}
}

func (t *TrivyScanner) Name() string               { return "trivy" }
func (t *TrivyScanner) Tool() models.Tool          { return models.ToolTrivy }
func (t *TrivyScanner) TargetKind() TargetKind     { return TargetImage }
func (t *TrivyScanner) Binary() string             { return t.bin }
func (t *TrivyScanner) DockerImage() string        { return "aquasec/trivy:latest" }
func (t *TrivyScanner) ExitPolicy() ExitPolicy     { return DefaultExitPolicy }
func (t *TrivyScanner) Args(image string) []string { return []string{"image", "--format", "json", image} }

// trivyOutput mirrors the relevant parts of trivy's JSON output.
type trivyOutput struct {
	Results []struct {
		Target          string `json:"Target"`
		Vulnerabilities []struct {
			VulnerabilityID  string `json:"VulnerabilityID"`
			PkgName          string `json:"PkgName"`
			InstalledVersion string `json:"InstalledVersion"`
			FixedVersion     string `json:"FixedVersion"`
			Title            string `json:"Title"`
			Severity         string `json:"Severity"`
		} `json:"Vulnerabilities"`
	} `json:"Results"`
}

func (t *TrivyScanner) Parse(data []byte) ([]models.Finding, error) {
	var output trivyOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing trivy JSON: %w", err)
	}

	findings := []models.Finding{}
	for _, res := range output.Results {
		for _, v := range res.Vulnerabilities {
			findings = append(findings, models.NewFinding(models.ToolTrivy,
				v.Severity, v.VulnerabilityID, v.PkgName, v.Title, v.FixedVersion))
		}
	}
	return findings, nil
}
