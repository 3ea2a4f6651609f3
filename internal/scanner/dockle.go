package scanner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/CosmoTheDev/artiscan/models"
)

// DockleScanner implements Adapter using dockle for image hygiene checks.
// Dockle inspects the image config, so every finding is attributed to the
// Dockerfile.
type DockleScanner struct {
	bin string
}

func NewDockleScanner(bin string) *DockleScanner {
	if bin == "" {
		bin = "dockle"
	}
	return &DockleScanner{bin: bin}
}

func (d *DockleScanner) Name() string               { return "dockle" }
func (d *DockleScanner) Tool() models.Tool          { return models.ToolDockle }
func (d *DockleScanner) TargetKind() TargetKind     { return TargetImage }
func (d *DockleScanner) Binary() string             { return d.bin }
func (d *DockleScanner) DockerImage() string        { return "goodwithtech/dockle:latest" }
func (d *DockleScanner) ExitPolicy() ExitPolicy     { return DefaultExitPolicy }
func (d *DockleScanner) Args(image string) []string { return []string{"--format", "json", image} }

type dockleOutput struct {
	Details []struct {
		Code   string   `json:"code"`
		Title  string   `json:"title"`
		Level  string   `json:"level"`
		Alerts []string `json:"alerts"`
	} `json:"details"`
}

func (d *DockleScanner) Parse(data []byte) ([]models.Finding, error) {
	var output dockleOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parsing dockle JSON: %w", err)
	}

	findings := make([]models.Finding, 0, len(output.Details))
	for _, det := range output.Details {
		findings = append(findings, models.NewFinding(models.ToolDockle,
			det.Level, det.Code, "Dockerfile", det.Title, joinAlerts(det.Alerts)))
	}
	return findings, nil
}

func joinAlerts(alerts []string) string {
	parts := make([]string, 0, len(alerts))
	for _, a := range alerts {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, "; ")
}
