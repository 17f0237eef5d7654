package a11y

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct{ id string }

func (s stubDetector) ID() string { return s.id }

func (s stubDetector) Describe() RuleInfo {
	return RuleInfo{ID: s.id, DefaultSeverity: SeverityMinor, WCAGLevel: LevelA}
}

func (s stubDetector) Detect(*dom.Document, *Env) []Issue { return nil }

type stubFixer struct {
	id   string
	kind FixKind
}

func (s stubFixer) ID() string    { return s.id }
func (s stubFixer) Kind() FixKind { return s.kind }

func (s stubFixer) Apply(content string) (FixResult, error) {
	return FixResult{Content: content}, nil
}

func TestRegistryKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(stubDetector{"b-rule"}, stubFixer{"b-rule", FixAutomatic})
	r.MustRegister(stubDetector{"a-rule"}, nil)
	r.MustRegister(stubDetector{"c-rule"}, stubFixer{"c-rule", FixManual})

	assert.Equal(t, []string{"b-rule", "a-rule", "c-rule"}, r.IDs())
	assert.Equal(t, 3, r.Len())
	require.Len(t, r.Fixers(), 2)
	assert.Equal(t, "b-rule", r.Fixers()[0].ID())

	catalog := r.Catalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, FixAutomatic, catalog[0].FixKind)
	assert.Equal(t, FixKind(""), catalog[1].FixKind)
	assert.Equal(t, FixManual, catalog[2].FixKind)
}

func TestRegistryRejectsBadRegistrations(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterDetector(stubDetector{"known"}))

	assert.ErrorIs(t, r.RegisterDetector(stubDetector{"known"}), ErrDuplicateRule)
	assert.ErrorIs(t, r.RegisterDetector(stubDetector{"Not_Kebab"}), ErrInvalidRuleID)
	assert.ErrorIs(t, r.RegisterFixer(stubFixer{"orphan", FixAutomatic}), ErrOrphanFixer)

	require.NoError(t, r.RegisterFixer(stubFixer{"known", FixAutomatic}))
	assert.ErrorIs(t, r.RegisterFixer(stubFixer{"known", FixAutomatic}), ErrDuplicateRule)

	assert.Panics(t, func() { r.MustRegister(stubDetector{"known"}, nil) })
}

func TestRegistryLookupAndValidate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(stubDetector{"one"}, stubFixer{"one", FixAutomatic})

	_, ok := r.Detector("one")
	assert.True(t, ok)
	_, ok = r.Fixer("two")
	assert.False(t, ok)

	assert.NoError(t, r.Validate([]string{"one"}))
	assert.ErrorIs(t, r.Validate([]string{"one", "two"}), ErrUnknownRule)
}
