package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxHTMLBytes limits HTML input to 10MB to prevent memory exhaustion
	DefaultMaxHTMLBytes = 10 * 1024 * 1024

	// MaxRuleIDLength bounds rule identifiers
	MaxRuleIDLength = 64
)

var (
	ErrEmptyHTML    = errors.New("html content required")
	ErrHTMLTooLarge = errors.New("html exceeds maximum size")
)

// RuleIDPattern matches kebab-case rule identifiers
var RuleIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateHTML checks HTML size. maxBytes <= 0 uses DefaultMaxHTMLBytes
func ValidateHTML(html string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxHTMLBytes
	}
	if strings.TrimSpace(html) == "" {
		return ErrEmptyHTML
	}
	if len(html) > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrHTMLTooLarge, len(html), maxBytes)
	}
	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateRuleID validates a kebab-case rule identifier
func ValidateRuleID(id string) error {
	if err := ValidateString(id, "rule_id", 1, MaxRuleIDLength, true); err != nil {
		return err
	}
	if !RuleIDPattern.MatchString(id) {
		return fmt.Errorf("rule_id %q must be kebab-case (lowercase alphanumerics separated by hyphens)", id)
	}
	return nil
}

// ValidateRuleIDs validates every id and rejects duplicates
func ValidateRuleIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if err := ValidateRuleID(id); err != nil {
			return err
		}
		if seen[id] {
			return fmt.Errorf("rule_id %q listed twice", id)
		}
		seen[id] = true
	}
	return nil
}
