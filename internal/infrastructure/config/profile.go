package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
)

// ErrUnsupportedProfile is returned for profile files that are neither YAML
// nor TOML.
var ErrUnsupportedProfile = errors.New("unsupported profile format")

// Profile selects and tunes rules for a site. Unset fields mean "all rules,
// default severities, registry order".
type Profile struct {
	SiteURL    string            `yaml:"site_url" toml:"site_url"`
	FailPolicy string            `yaml:"fail_policy" toml:"fail_policy"`
	Enabled    []string          `yaml:"enabled" toml:"enabled"`
	Disabled   []string          `yaml:"disabled" toml:"disabled"`
	Severity   map[string]string `yaml:"severity" toml:"severity"`
	FixOrder   []string          `yaml:"fix_order" toml:"fix_order"`
}

// LoadProfile reads a profile, picking the decoder from the file extension.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	p, err := ParseProfile(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes a profile in "yaml", "yml" or "toml" format. Unknown
// keys are rejected.
func ParseProfile(data []byte, format string) (*Profile, error) {
	var p Profile
	switch format {
	case "yaml", "yml":
		if err := yaml.UnmarshalWithOptions(data, &p, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("parse yaml profile: %w", err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("parse toml profile: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProfile, format)
	}
	if p.FailPolicy != "" && p.FailPolicy != FailOpen && p.FailPolicy != FailClosed {
		return nil, fmt.Errorf("fail_policy must be %q or %q, got %q", FailOpen, FailClosed, p.FailPolicy)
	}
	return &p, nil
}

// Validate checks every rule id the profile names against the registry.
func (p *Profile) Validate(reg *a11y.Registry) error {
	ids := make([]string, 0, len(p.Enabled)+len(p.Disabled)+len(p.Severity)+len(p.FixOrder))
	ids = append(ids, p.Enabled...)
	ids = append(ids, p.Disabled...)
	ids = append(ids, p.FixOrder...)
	for id := range p.Severity {
		ids = append(ids, id)
	}
	if err := reg.Validate(ids); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	_, err := p.SeverityOverrides()
	return err
}

// ScanRules filters ids (registry order) down to the profile's selection.
func (p *Profile) ScanRules(ids []string) []string {
	enabled := toSet(p.Enabled)
	disabled := toSet(p.Disabled)

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if len(enabled) > 0 && !enabled[id] {
			continue
		}
		if disabled[id] {
			continue
		}
		out = append(out, id)
	}
	return out
}

// FixRules returns the fixer ids to run. An explicit fix_order wins over
// registry order; disabled rules are dropped either way.
func (p *Profile) FixRules(ids []string) []string {
	if len(p.FixOrder) == 0 {
		return p.ScanRules(ids)
	}
	disabled := toSet(p.Disabled)
	out := make([]string, 0, len(p.FixOrder))
	for _, id := range p.FixOrder {
		if !disabled[id] {
			out = append(out, id)
		}
	}
	return out
}

// SeverityOverrides parses the severity map.
func (p *Profile) SeverityOverrides() (map[string]a11y.Severity, error) {
	if len(p.Severity) == 0 {
		return nil, nil
	}
	out := make(map[string]a11y.Severity, len(p.Severity))
	for id, name := range p.Severity {
		s, err := a11y.ParseSeverity(name)
		if err != nil {
			return nil, fmt.Errorf("profile severity for %s: %w", id, err)
		}
		out[id] = s
	}
	return out, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
