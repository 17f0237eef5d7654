package rules

import (
	"net/url"
	"testing"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateLinkTextOneIssuePerDestination(t *testing.T) {
	two := `<a href="/a.pdf">Download</a><a href="/b.pdf">Download</a>`
	issues := detect(t, "duplicate-link-text", two)
	require.Len(t, issues, 2)
	assert.Equal(t, "/a.pdf", issues[0].Context["destination"])
	assert.Equal(t, "/b.pdf", issues[1].Context["destination"])

	three := two + `<a href="/a.pdf">Download</a>`
	assert.Len(t, detect(t, "duplicate-link-text", three), 2)
}

func TestDuplicateLinkTextNormalization(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"fragment ignored", `<a href="/docs#a">Docs</a><a href="/docs#b">Docs</a>`, 0},
		{"trailing slash ignored", `<a href="/docs/">Docs</a><a href="/docs">Docs</a>`, 0},
		{"case and spacing of name", `<a href="/a">Read  the Guide</a><a href="/b">read the guide.</a>`, 2},
		{"different names", `<a href="/a">One</a><a href="/b">Two</a>`, 0},
		{"same site absolute", `<a href="https://example.com/docs">Docs</a><a href="/docs">Docs</a>`, 0},
	}

	env := a11y.NewEnv("https://example.com/")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, detectWithEnv(t, "duplicate-link-text", tt.content, env), tt.want)
		})
	}

	// without a site URL an absolute link is a different destination
	assert.Len(t, detect(t, "duplicate-link-text", `<a href="https://example.com/docs">Docs</a><a href="/docs">Docs</a>`), 2)
}

func TestNormalizeDestination(t *testing.T) {
	site, err := url.Parse("https://Example.com/base/")
	require.NoError(t, err)

	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/a.pdf#page=2", "/a.pdf", true},
		{"https://example.com/x/?q=1", "/x?q=1", true},
		{"https://other.org/x/", "https://other.org/x", true},
		{"guide", "/base/guide", true},
		{"javascript:void(0)", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := normalizeDestination(tt.href, site)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmptyLink(t *testing.T) {
	assert.Len(t, detect(t, "empty-link", `<a href="/x"></a>`), 1)
	assert.Len(t, detect(t, "empty-link", `<a href="/x"><img src="i.png" alt=""></a>`), 1)
	assert.Empty(t, detect(t, "empty-link", `<a href="/x"><img src="i.png" alt="Home"></a>`))
	assert.Empty(t, detect(t, "empty-link", `<a href="/x" aria-label="Home"></a>`))
	assert.Empty(t, detect(t, "empty-link", `<a name="top"></a>`))

	tests := []struct {
		content string
		want    string
	}{
		{`<a href="/x" title="Account settings"></a>`, `aria-label="Account settings"`},
		{`<a href="/reports/annual-report.pdf"></a>`, `aria-label="Annual report"`},
		{`<a href="https://www.github.com/"></a>`, `aria-label="github.com"`},
	}
	for _, tt := range tests {
		res := applyFix(t, "empty-link", tt.content)
		assert.Equal(t, 1, res.FixedCount)
		assert.Contains(t, res.Content, tt.want)
	}
}

func TestGenericLinkText(t *testing.T) {
	assert.Len(t, detect(t, "generic-link-text", `<a href="/a">Click here</a>`), 1)
	assert.Len(t, detect(t, "generic-link-text", `<a href="/a">Read more…</a>`), 1)
	assert.Empty(t, detect(t, "generic-link-text", `<a href="/a" aria-label="Read more about pricing">Read more</a>`))
	assert.Empty(t, detect(t, "generic-link-text", `<a href="/a">Pricing</a>`))

	res := applyFix(t, "generic-link-text", `<a href="/a">here</a>`)
	assert.Zero(t, res.FixedCount, "no title to derive a label from")

	res = applyFix(t, "generic-link-text", `<a href="/a" title="Pricing plans">here</a>`)
	assert.Equal(t, `<a href="/a" title="Pricing plans" aria-label="Pricing plans">here</a>`, res.Content)
}

func TestLinkOpensNewWindow(t *testing.T) {
	assert.Len(t, detect(t, "link-opens-new-window", `<a href="/a" target="_blank">Docs</a>`), 1)
	assert.Empty(t, detect(t, "link-opens-new-window", `<a href="/a" target="_blank">Docs (opens in new window)</a>`))
	assert.Empty(t, detect(t, "link-opens-new-window", `<a href="/a" target="_self">Docs</a>`))

	res := applyFix(t, "link-opens-new-window", `<a href="/a" target="_blank" aria-label="API docs">Docs</a>`)
	assert.Contains(t, res.Content, `aria-label="API docs (opens in a new tab)"`)
}

func TestRedundantTitleAttribute(t *testing.T) {
	assert.Len(t, detect(t, "redundant-title-attribute", `<a href="/a" title="Docs">Docs</a>`), 1)
	assert.Len(t, detect(t, "redundant-title-attribute", `<img src="a.png" alt="Logo" title="logo">`), 1)
	assert.Empty(t, detect(t, "redundant-title-attribute", `<a href="/a" title="Documentation home">Docs</a>`))

	res := applyFix(t, "redundant-title-attribute", `<a href="/a" title="Docs">Docs</a>`)
	assert.Equal(t, `<a href="/a">Docs</a>`, res.Content)
}
