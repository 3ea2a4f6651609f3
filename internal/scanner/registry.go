package scanner

import (
	"fmt"
	"strings"
)

// KnownScanners lists every scanner name BuildScanners accepts.
var KnownScanners = []string{"trivy", "dockle", "tfsec", "checkov"}

// BuildScanners constructs adapters for the given names, in order.
// binaries optionally overrides the executable per scanner name.
func BuildScanners(names []string, binaries map[string]string) ([]Adapter, error) {
	adapters := make([]Adapter, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		bin := binaries[name]
		var a Adapter
		switch name {
		case "trivy":
			a = NewTrivyScanner(bin)
		case "dockle":
			a = NewDockleScanner(bin)
		case "tfsec":
			a = NewTfsecScanner(bin)
		case "checkov":
			a = NewCheckovScanner(bin)
		default:
			return nil, fmt.Errorf("unknown scanner %q (supported: %s)", raw, strings.Join(KnownScanners, ", "))
		}
		adapters = append(adapters, a)
	}
	return adapters, nil
}
