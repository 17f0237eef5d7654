package a11y

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

var (
	ErrDuplicateRule = errors.New("rule already registered")
	ErrOrphanFixer   = errors.New("fixer has no matching detector")
	ErrInvalidRuleID = errors.New("rule id must be kebab-case")
	ErrUnknownRule   = errors.New("unknown rule")
)

var ruleIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Registry is the ordered catalogue of detectors and fixers.
type Registry struct {
	mu        sync.RWMutex
	detectors []Detector
	fixers    []Fixer
	detByID   map[string]Detector
	fixByID   map[string]Fixer
}

// CatalogEntry summarizes one rule for listings.
type CatalogEntry struct {
	RuleInfo
	FixKind FixKind `json:"fix_kind,omitempty"`
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		detByID: make(map[string]Detector),
		fixByID: make(map[string]Fixer),
	}
}

// Register adds a detector and, when fixer is non-nil, its paired fixer.
func (r *Registry) Register(d Detector, f Fixer) error {
	if err := r.RegisterDetector(d); err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	return r.RegisterFixer(f)
}

// MustRegister is Register that panics on error. Use it for static rule sets.
func (r *Registry) MustRegister(d Detector, f Fixer) {
	if err := r.Register(d, f); err != nil {
		panic(err)
	}
}

// RegisterDetector appends a detector.
func (r *Registry) RegisterDetector(d Detector) error {
	id := d.ID()
	if !ruleIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidRuleID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.detByID[id]; exists {
		return fmt.Errorf("%w: detector %s", ErrDuplicateRule, id)
	}
	r.detectors = append(r.detectors, d)
	r.detByID[id] = d
	return nil
}

// RegisterFixer appends a fixer. Its id must already name a detector.
func (r *Registry) RegisterFixer(f Fixer) error {
	id := f.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.detByID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrOrphanFixer, id)
	}
	if _, exists := r.fixByID[id]; exists {
		return fmt.Errorf("%w: fixer %s", ErrDuplicateRule, id)
	}
	r.fixers = append(r.fixers, f)
	r.fixByID[id] = f
	return nil
}

// Detectors returns detectors in registration order.
func (r *Registry) Detectors() []Detector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Detector, len(r.detectors))
	copy(out, r.detectors)
	return out
}

// Fixers returns fixers in registration order.
func (r *Registry) Fixers() []Fixer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Fixer, len(r.fixers))
	copy(out, r.fixers)
	return out
}

// Detector looks up a detector by id.
func (r *Registry) Detector(id string) (Detector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.detByID[id]
	return d, ok
}

// Fixer looks up a fixer by id.
func (r *Registry) Fixer(id string) (Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fixByID[id]
	return f, ok
}

// IDs returns detector ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		ids[i] = d.ID()
	}
	return ids
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.detectors)
}

// Catalog describes every detector with the kind of its fixer, if any.
func (r *Registry) Catalog() []CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CatalogEntry, 0, len(r.detectors))
	for _, d := range r.detectors {
		entry := CatalogEntry{RuleInfo: d.Describe()}
		if f, ok := r.fixByID[d.ID()]; ok {
			entry.FixKind = f.Kind()
		}
		out = append(out, entry)
	}
	return out
}

// Validate checks that every id in ids is registered.
func (r *Registry) Validate(ids []string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range ids {
		if _, ok := r.detByID[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}
	return nil
}
