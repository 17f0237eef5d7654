package rules

import (
	"testing"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidLang(t *testing.T) {
	tests := []struct {
		lang string
		want int
	}{
		{"en", 0},
		{"pt-BR", 0},
		{"zh-Hant-TW", 0},
		{"en_US", 1},
		{"not a tag", 1},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Len(t, detect(t, "invalid-lang", `<p lang="`+tt.lang+`">x</p>`), tt.want)
		})
	}

	res := applyFix(t, "invalid-lang", `<p lang="en_US">x</p>`)
	assert.Equal(t, `<p lang="en-US">x</p>`, res.Content)

	res = applyFix(t, "invalid-lang", `<p lang="not a tag">x</p>`)
	assert.Zero(t, res.FixedCount)
}

func TestInvalidLangOnPageRoot(t *testing.T) {
	page := `<!DOCTYPE html><html lang="en_US"><head><title>T</title></head><body><p>x</p></body></html>`

	issues := detect(t, "invalid-lang", page)
	require.Len(t, issues, 1)
	assert.Equal(t, "en-US", issues[0].Context["suggestion"])

	res := applyFix(t, "invalid-lang", page)
	assert.Equal(t, 1, res.FixedCount)
	assert.Equal(t, `<!DOCTYPE html><html lang="en-US"><head><title>T</title></head><body><p>x</p></body></html>`, res.Content)
}

func TestDuplicateID(t *testing.T) {
	content := `<div id="card">1</div><div id="card">2</div><div id="card">3</div><span id="card-2">x</span>`
	assert.Len(t, detect(t, "duplicate-id", content), 2)

	res := applyFix(t, "duplicate-id", content)
	assert.Equal(t, 2, res.FixedCount)
	assert.Equal(t, `<div id="card">1</div><div id="card-3">2</div><div id="card-4">3</div><span id="card-2">x</span>`, res.Content)
}

func TestDuplicateIDKeepsReferencedIDs(t *testing.T) {
	content := `<label for="email">Email</label><input id="email"><input id="email">`
	assert.Len(t, detect(t, "duplicate-id", content), 1)

	res := applyFix(t, "duplicate-id", content)
	assert.Zero(t, res.FixedCount)
	assert.Equal(t, content, res.Content)
}

func TestInvalidListStructure(t *testing.T) {
	content := `<ul><li>a</li><p>b</p><script>x()</script></ul>`
	issues := detect(t, "invalid-list-structure", content)
	require.Len(t, issues, 1)
	assert.Equal(t, "p", issues[0].Context["element"])

	res := applyFix(t, "invalid-list-structure", content)
	assert.Equal(t, `<ul><li>a</li><li><p>b</p></li><script>x()</script></ul>`, res.Content)
}

func TestMainLandmarks(t *testing.T) {
	assert.Len(t, detect(t, "missing-main-landmark", `<header>Site</header><p>Body</p>`), 1)
	assert.Len(t, detect(t, "missing-main-landmark", `<div role="navigation">Menu</div>`), 1)
	assert.Empty(t, detect(t, "missing-main-landmark", `<header>Site</header><main>Body</main>`))
	assert.Empty(t, detect(t, "missing-main-landmark", `<p>Just a fragment</p>`))

	assert.Len(t, detect(t, "duplicate-main-landmark", `<main>a</main><div role="main">b</div>`), 1)
	assert.Empty(t, detect(t, "duplicate-main-landmark", `<main>a</main><main hidden>b</main>`))
}

func TestInsufficientColorContrast(t *testing.T) {
	tests := []struct {
		name  string
		style string
		want  int
	}{
		{"grey on white", "color:#777;background:#fff", 1},
		{"black on white", "color: black; background-color: white", 0},
		{"rgb", "color: rgb(200, 200, 200); background-color: rgb(255,255,255)", 1},
		{"alpha", "color: rgba(0,0,0,.5); background:#fff", 0},
		{"gradient", "color:#777;background:linear-gradient(#fff,#eee)", 0},
		{"no background", "color:#777", 0},
		{"current color", "color:currentColor;background:#fff", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := detect(t, "insufficient-color-contrast", `<p style="`+tt.style+`">Text</p>`)
			assert.Len(t, issues, tt.want)
		})
	}

	issues := detect(t, "insufficient-color-contrast", `<p style="color:#777;background:#fff">Text</p>`)
	require.Len(t, issues, 1)
	assert.Equal(t, "4.48", issues[0].Context["ratio"])
	assert.Equal(t, "#777777", issues[0].Context["foreground"])
	assert.Equal(t, a11y.SeveritySerious, issues[0].Severity)
}

func TestContrastRatio(t *testing.T) {
	assert.InDelta(t, 21.0, contrastRatio(rgb{0, 0, 0}, rgb{255, 255, 255}), 0.01)
	assert.InDelta(t, 1.0, contrastRatio(rgb{10, 20, 30}, rgb{10, 20, 30}), 0.0001)
}

func TestKeyboardRules(t *testing.T) {
	assert.Len(t, detect(t, "missing-keyboard-access", `<div onclick="open()">Open</div>`), 1)
	assert.Empty(t, detect(t, "missing-keyboard-access", `<button onclick="open()">Open</button>`))
	assert.Empty(t, detect(t, "missing-keyboard-access", `<div onclick="open()" tabindex="0">Open</div>`))

	res := applyFix(t, "missing-keyboard-access", `<span onclick="open()">Open</span>`)
	assert.Equal(t, `<span onclick="open()" tabindex="0" role="button">Open</span>`, res.Content)
	res = applyFix(t, "missing-keyboard-access", `<li onclick="pick()" role="option">A</li>`)
	assert.Equal(t, `<li onclick="pick()" role="option" tabindex="0">A</li>`, res.Content)

	assert.Len(t, detect(t, "keyboard-trap", `<input onblur="this.focus()">`), 1)
	assert.Len(t, detect(t, "keyboard-trap", `<div onkeydown="if (event.keyCode == 9) { event.preventDefault(); }">x</div>`), 1)
	assert.Empty(t, detect(t, "keyboard-trap", `<input onblur="validate(this)">`))

	assert.Len(t, detect(t, "positive-tabindex", `<a href="/" tabindex="3">x</a>`), 1)
	assert.Empty(t, detect(t, "positive-tabindex", `<a href="/" tabindex="0">x</a><div tabindex="-1">y</div>`))

	assert.Len(t, detect(t, "pointer-gesture-alternative", `<div ontouchstart="swipe()">x</div>`), 1)
	assert.Empty(t, detect(t, "pointer-gesture-alternative", `<div ontouchstart="swipe()" onclick="next()">x</div>`))
}
