package a11y

import (
	"net/url"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
)

// RuleInfo is the static description of a detection rule.
type RuleInfo struct {
	ID              string   `json:"id"`
	Message         string   `json:"message"`
	Description     string   `json:"description"`
	WCAGCriterion   string   `json:"wcag_criterion"`
	WCAGLevel       Level    `json:"wcag_level"`
	DefaultSeverity Severity `json:"default_severity"`
	Recommendation  string   `json:"recommendation"`
}

// Detector finds violations in a parsed document. Implementations are
// stateless, never mutate the document and never fail: structure they do
// not recognize yields no issues.
type Detector interface {
	ID() string
	Describe() RuleInfo
	Detect(doc *dom.Document, env *Env) []Issue
}

// FixKind distinguishes real fixers from inert ones.
type FixKind string

const (
	// FixAutomatic rewrites markup.
	FixAutomatic FixKind = "automatic"
	// FixManual never changes content; its issues need a human.
	FixManual FixKind = "manual"
)

// Fixer rewrites raw content for the detector sharing its id. Apply must be
// idempotent and must return clean input unchanged.
type Fixer interface {
	ID() string
	Kind() FixKind
	Apply(content string) (FixResult, error)
}

// Env carries ambient platform state into detectors explicitly.
type Env struct {
	// SiteURL resolves relative links and identifies same-site destinations.
	SiteURL *url.URL
}

// NewEnv builds an Env from a site URL string. An empty or unparsable URL
// leaves SiteURL unset.
func NewEnv(siteURL string) *Env {
	env := &Env{}
	if siteURL == "" {
		return env
	}
	if u, err := url.Parse(siteURL); err == nil && u.Host != "" {
		env.SiteURL = u
	}
	return env
}
