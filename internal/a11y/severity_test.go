package a11y

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityOrdering(t *testing.T) {
	ordered := Severities()
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i-1] > ordered[i], "%s should outrank %s", ordered[i-1], ordered[i])
	}
	assert.True(t, SeverityCritical.AtLeast(SeveritySerious))
	assert.False(t, SeverityNotice.AtLeast(SeverityWarning))
}

func TestParseSeverity(t *testing.T) {
	for _, s := range Severities() {
		parsed, err := ParseSeverity(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	parsed, err := ParseSeverity("  Serious ")
	require.NoError(t, err)
	assert.Equal(t, SeveritySerious, parsed)

	_, err = ParseSeverity("blocker")
	assert.Error(t, err)
	assert.Equal(t, "unknown", Severity(42).String())
}

func TestSeverityText(t *testing.T) {
	text, err := SeverityModerate.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "moderate", string(text))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("minor")))
	assert.Equal(t, SeverityMinor, s)
	assert.Error(t, s.UnmarshalText([]byte("nope")))
}

func TestNewEnv(t *testing.T) {
	assert.Nil(t, NewEnv("").SiteURL)
	assert.Nil(t, NewEnv("not a url").SiteURL)

	env := NewEnv("https://example.org/blog/")
	require.NotNil(t, env.SiteURL)
	assert.Equal(t, "example.org", env.SiteURL.Host)
}
