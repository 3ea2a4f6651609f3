package models

import "strings"

// SeverityLevel represents the severity of a security finding.
type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "CRITICAL"
	SeverityHigh     SeverityLevel = "HIGH"
	SeverityMedium   SeverityLevel = "MEDIUM"
	SeverityLow      SeverityLevel = "LOW"
	SeverityInfo     SeverityLevel = "INFO"
	SeverityUnknown  SeverityLevel = "UNKNOWN"
)

// Severities lists every canonical level, most severe first.
var Severities = []SeverityLevel{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
	SeverityUnknown,
}

// Rank returns the sort position of s (0 = most severe).
func (s SeverityLevel) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	case SeverityInfo:
		return 4
	default:
		return 5
	}
}

// Valid reports whether s is one of the canonical levels.
func (s SeverityLevel) Valid() bool {
	for _, c := range Severities {
		if s == c {
			return true
		}
	}
	return false
}

func (s SeverityLevel) String() string {
	return string(s)
}

// MapSeverity normalises scanner-specific severity strings to SeverityLevel.
// Anything unrecognised becomes SeverityUnknown.
func MapSeverity(raw string) SeverityLevel {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CRITICAL", "FATAL":
		return SeverityCritical
	case "HIGH", "ERROR":
		return SeverityHigh
	case "MEDIUM", "MODERATE", "WARNING", "WARN":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	case "INFO", "NEGLIGIBLE", "SKIP", "PASS":
		return SeverityInfo
	default:
		return SeverityUnknown
	}
}
