package rules

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingAltTextCandidates(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"img without alt", `<img src="a.png">`, 1},
		{"img with empty alt", `<img src="a.png" alt="">`, 0},
		{"image button", `<input type="image" src="go.png">`, 1},
		{"image map area", `<map name="m"><area href="/x" shape="rect" coords="0,0,1,1"></map>`, 1},
		{"area without href", `<map name="m"><area shape="rect" coords="0,0,1,1"></map>`, 0},
		{"presentation role", `<img src="a.png" role="presentation">`, 0},
		{"aria-label", `<img src="a.png" aria-label="Logo">`, 0},
		{"labelledby", `<span id="cap">Logo</span><img src="a.png" aria-labelledby="cap">`, 0},
		{"broken labelledby", `<img src="a.png" aria-labelledby="nope">`, 1},
		{"hidden", `<div hidden><img src="a.png"></div>`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, detect(t, "missing-alt-text", tt.content), tt.want)
		})
	}
}

func TestMissingAltTextIssueFields(t *testing.T) {
	issues := detect(t, "missing-alt-text", `<div id="hero"><img src="/a/b.png"></div>`)
	require.Len(t, issues, 1)

	is := issues[0]
	assert.Equal(t, "missing-alt-text", is.RuleID)
	assert.Equal(t, a11y.SeverityCritical, is.Severity)
	assert.Equal(t, "1.1.1", is.WCAGCriterion)
	assert.Equal(t, a11y.LevelA, is.WCAGLevel)
	assert.Equal(t, "#hero > img", is.Selector)
	assert.Equal(t, `<img src="/a/b.png"/>`, is.HTMLSnippet)
	assert.Equal(t, "/a/b.png", is.Context["src"])
}

func TestMissingAltTextFixLabelSources(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"title first", `<img src="x.jpg" title="Our team">`, `alt="Our team"`},
		{"figure caption", `<figure><img src="x.jpg"><figcaption>Our office</figcaption></figure>`, `alt="Our office"`},
		{"file name", `<img src="/media/red-bicycle.jpg">`, `alt="Red bicycle"`},
		{"camera file name", `<img src="DSC_0042.jpg">`, `alt="Image"`},
		{"decorative file name", `<img src="divider.png">`, `alt=""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := applyFix(t, "missing-alt-text", tt.content)
			assert.Equal(t, 1, res.FixedCount)
			assert.Contains(t, res.Content, tt.want)
		})
	}
}

func TestMissingAltTextSkipsUnlabellable(t *testing.T) {
	content := `<img src="data:image/png;base64,AAAA">`
	res := applyFix(t, "missing-alt-text", content)
	assert.Zero(t, res.FixedCount)
	assert.Equal(t, content, res.Content)
}

func TestDecorativeAndAltTextAgree(t *testing.T) {
	content := `<img src="/assets/spacer.gif">`
	assert.Len(t, detect(t, "decorative-image", content), 1)
	assert.Len(t, detect(t, "missing-alt-text", content), 1)

	for _, order := range [][]string{
		{"decorative-image", "missing-alt-text"},
		{"missing-alt-text", "decorative-image"},
	} {
		out := content
		for _, id := range order {
			out = applyFix(t, id, out).Content
		}
		assert.Contains(t, out, `alt=""`)
		assert.Empty(t, detect(t, "decorative-image", out))
		assert.Empty(t, detect(t, "missing-alt-text", out))
	}
}

func TestDecorativeImage(t *testing.T) {
	assert.Len(t, detect(t, "decorative-image", `<img src="bg-header.png" alt="Header background">`), 1)
	assert.Len(t, detect(t, "decorative-image", `<img src="spacer.gif" alt="spacer.gif">`), 1)
	assert.Empty(t, detect(t, "decorative-image", `<img src="bg-header.png" alt="">`))
	assert.Empty(t, detect(t, "decorative-image", `<img src="background-check.pdf.png" alt="x" hidden>`))
	assert.Empty(t, detect(t, "decorative-image", `<img src="portrait.png" alt="Ada">`))
}

func TestDecorativeImageFixKeepsAuthoredAlt(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		touched bool
	}{
		{"missing alt", `<img src="spacer.gif">`, `<img src="spacer.gif" alt=""/>`, true},
		{"blank alt", `<img src="divider.png" alt="  ">`, `<img src="divider.png" alt=""/>`, true},
		{"file name alt", `<img src="spacer.gif" alt="spacer.gif">`, `<img src="spacer.gif" alt=""/>`, true},
		{"placeholder alt", `<img src="shadow.png" alt="image">`, `<img src="shadow.png" alt=""/>`, true},
		{"authored alt", `<img src="/img/hero-background.jpg" alt="Our team at the summit">`, `<img src="/img/hero-background.jpg" alt="Our team at the summit">`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := applyFix(t, "decorative-image", tt.in)
			assert.Equal(t, tt.want, res.Content)
			if tt.touched {
				assert.Equal(t, 1, res.FixedCount)
			} else {
				assert.Zero(t, res.FixedCount)
			}
		})
	}
}

func TestDecorativeImageOnFullPage(t *testing.T) {
	page := `<!DOCTYPE html><html lang="en"><head><title>T</title></head><body class="home"><img src="spacer.gif"></body></html>`

	res := applyFix(t, "decorative-image", page)
	assert.Equal(t, 1, res.FixedCount)
	assert.Equal(t,
		`<!DOCTYPE html><html lang="en"><head><title>T</title></head><body class="home"><img src="spacer.gif" alt=""/></body></html>`,
		res.Content)
}

func TestRedundantAltText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  string
		fixed   string
	}{
		{"prefix", `<img src="a.jpg" alt="Picture of the harbour">`, "prefix", `alt="Harbour"`},
		{"filename", `<img src="a.jpg" alt="city_skyline.jpg">`, "filename", `alt="City skyline"`},
		{"placeholder", `<img src="/img/golden-gate.jpg" alt="image">`, "placeholder", `alt="Golden gate"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := detect(t, "redundant-alt-text", tt.content)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.reason, issues[0].Context["reason"])

			res := applyFix(t, "redundant-alt-text", tt.content)
			assert.Equal(t, 1, res.FixedCount)
			assert.Contains(t, res.Content, tt.fixed)
		})
	}
}

func TestRedundantAltTextLeavesUnfixablePlaceholder(t *testing.T) {
	content := `<img src="IMG_1234.jpg" alt="photo">`
	assert.Len(t, detect(t, "redundant-alt-text", content), 1)
	res := applyFix(t, "redundant-alt-text", content)
	assert.Zero(t, res.FixedCount)
}

func TestLongAltText(t *testing.T) {
	long := make([]byte, maxAltLength+1)
	for i := range long {
		long[i] = 'a'
	}
	issues := detect(t, "long-alt-text", `<img src="a.png" alt="`+string(long)+`">`)
	require.Len(t, issues, 1)
	assert.Equal(t, a11y.SeverityWarning, issues[0].Severity)
	assert.Empty(t, detect(t, "long-alt-text", `<img src="a.png" alt="short">`))
}
