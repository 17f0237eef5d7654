package a11y

import (
	"fmt"
	"strings"
)

// Severity orders findings for sorting and reporting. It never influences
// execution order.
type Severity int

const (
	SeverityNotice Severity = iota
	SeverityWarning
	SeverityMinor
	SeverityModerate
	SeveritySerious
	SeverityCritical
)

var severityNames = [...]string{
	SeverityNotice:   "notice",
	SeverityWarning:  "warning",
	SeverityMinor:    "minor",
	SeverityModerate: "moderate",
	SeveritySerious:  "serious",
	SeverityCritical: "critical",
}

// Severities lists every severity from most to least severe.
func Severities() []Severity {
	return []Severity{
		SeverityCritical,
		SeveritySerious,
		SeverityModerate,
		SeverityMinor,
		SeverityWarning,
		SeverityNotice,
	}
}

// String returns the lower-case severity name.
func (s Severity) String() string {
	if s < SeverityNotice || s > SeverityCritical {
		return "unknown"
	}
	return severityNames[s]
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s >= other
}

// ParseSeverity parses a severity name (case-insensitive).
func ParseSeverity(name string) (Severity, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return SeverityNotice, fmt.Errorf("unknown severity %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Level is a WCAG conformance level.
type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)
