package dom

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPreservesMarkup(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"paragraph", `<p class="intro">Hello <strong>world</strong></p>`},
		{"nested list", `<ul><li><a href="/a">A</a></li><li>B</li></ul>`},
		{"table without tbody", `<table><tr><td>A</td><td>B</td></tr></table>`},
		{"table with tbody", `<table><tbody><tr><td>A</td></tr></tbody></table>`},
		{"headings", `<h1>One</h1><h2 id="two">Two</h2>`},
		{"aria attributes", `<div role="navigation" aria-label="Main">x</div>`},
		{"text only", `plain text`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.html, Parse(tt.html).Serialize())
		})
	}
}

func TestParseFragmentStaysFragment(t *testing.T) {
	doc := Parse(`<p>Hi</p><header>top</header>`)
	assert.False(t, doc.IsPage())
	assert.Equal(t, `<p>Hi</p><header>top</header>`, doc.Serialize())
	assert.Empty(t, doc.Elements("html", "head", "body"))
}

func TestParsePageKeepsAuthoredWrappers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"full page",
			`<!DOCTYPE html><html lang="en"><head><title>T</title></head><body class="home"><p>Hi</p></body></html>`,
			`<!DOCTYPE html><html lang="en"><head><title>T</title></head><body class="home"><p>Hi</p></body></html>`,
		},
		{
			"leading comment",
			`<!-- built --><html><body><p>Hi</p></body></html>`,
			`<!-- built --><html><body><p>Hi</p></body></html>`,
		},
		{
			"doctype without wrappers",
			`<!doctype html><title>T</title><p>Hi</p>`,
			`<!DOCTYPE html><title>T</title><p>Hi</p>`,
		},
		{
			"body only",
			`<body data-page="x"><p>Hi</p></body>`,
			`<body data-page="x"><p>Hi</p></body>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.in)
			assert.True(t, doc.IsPage())
			assert.Equal(t, tt.want, doc.Serialize())
		})
	}
}

func TestParsePageExposesRootAttributes(t *testing.T) {
	doc := Parse("\n  <!DOCTYPE html>\n<html lang=\"en_US\"><head><meta name=\"viewport\" content=\"width=device-width\"></head><body><p>x</p></body></html>")
	require.True(t, doc.IsPage())

	nodes := doc.XPath("//*[@lang]")
	require.Len(t, nodes, 1)
	assert.Equal(t, "html", nodes[0].Data)
	assert.Len(t, doc.Select(`meta[name="viewport"]`), 1)
}

func TestParseToleratesMalformedInput(t *testing.T) {
	inputs := []string{
		"",
		"<div><p>unclosed",
		"</div></div><span>stray closers</span>",
		"<<<>>>",
		"<table><td>cell outside row",
		"<img src=\"x.png\" alt=\"unterminated",
		"\x00\x01binary",
	}

	for _, in := range inputs {
		require.NotPanics(t, func() {
			doc := Parse(in)
			_ = doc.Serialize()
			_ = doc.Find("p").Length()
		}, "input %q", in)
	}

	doc := Parse("<div><p>unclosed")
	assert.Equal(t, 1, doc.Find("p").Length())
	assert.Equal(t, "unclosed", doc.Find("p").Text())
}

func TestSyntheticRootNeverMatchesSelectors(t *testing.T) {
	doc := Parse(`<span>a</span>`)
	assert.Equal(t, 0, doc.Find("div").Length())
	assert.Len(t, doc.Elements(), 1)
}

func TestXPath(t *testing.T) {
	doc := Parse(`<article><header id="a">A</header></article><header id="b">B</header>`)

	nodes := doc.XPath("//header[not(ancestor::article)]")
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", AttrOr(nodes[0], "id", ""))

	assert.Nil(t, doc.XPath("//[broken"))
}

func TestElementsDocumentOrder(t *testing.T) {
	doc := Parse(`<h2>a</h2><div><h1>b</h1></div><h3>c</h3>`)
	var got []string
	for _, n := range doc.Elements("h1", "h2", "h3") {
		got = append(got, n.Data)
	}
	assert.Equal(t, []string{"h2", "h1", "h3"}, got)
}

func TestSelector(t *testing.T) {
	doc := Parse(`<main id="content"><ul><li>a</li><li><img src="b.png"></li></ul></main><p><img src="c.png"></p>`)
	imgs := doc.Elements("img")
	require.Len(t, imgs, 2)

	assert.Equal(t, "#content > ul > li:nth-of-type(2) > img", Selector(imgs[0]))
	assert.Equal(t, "p > img", Selector(imgs[1]))
}

func TestSnippetTruncates(t *testing.T) {
	long := `<p>` + strings.Repeat("é", 300) + `</p>`
	doc := Parse(long)
	snippet := Snippet(doc.Elements("p")[0])

	assert.LessOrEqual(t, len(snippet), MaxSnippetLength)
	assert.True(t, strings.HasSuffix(snippet, "..."))
	assert.True(t, utf8.ValidString(snippet))
}

func TestRenameMovesChildrenAndAttributes(t *testing.T) {
	doc := Parse(`<div role="main" class="wrap" id="m"><p>Body <em>text</em></p></div>`)
	div := doc.Elements("div")[0]

	Rename(div, "main", "role")

	assert.Equal(t, `<main class="wrap" id="m"><p>Body <em>text</em></p></main>`, doc.Serialize())
}

func TestWrapAndUnwrap(t *testing.T) {
	doc := Parse(`<ul><p>x</p></ul>`)
	p := doc.Elements("p")[0]

	li := Wrap(p, "li")
	assert.Equal(t, `<ul><li><p>x</p></li></ul>`, doc.Serialize())

	Unwrap(li)
	assert.Equal(t, `<ul><p>x</p></ul>`, doc.Serialize())
}

func TestIsHidden(t *testing.T) {
	doc := Parse(`<div aria-hidden="true"><a href="/a">a</a></div>
<p style="display: none"><span>b</span></p>
<input type="hidden" name="c">
<span hidden>d</span>
<em>visible</em>`)

	assert.True(t, IsHidden(doc.Elements("a")[0]))
	assert.True(t, IsHidden(doc.Find("p span").Get(0)))
	assert.True(t, IsHidden(doc.Elements("input")[0]))
	assert.True(t, IsHidden(doc.Find("span[hidden]").Get(0)))
	assert.False(t, IsHidden(doc.Elements("em")[0]))
}

func TestAttributeHelpers(t *testing.T) {
	doc := Parse(`<img SRC="a.png" alt="x">`)
	img := doc.Elements("img")[0]

	v, ok := Attr(img, "src")
	assert.True(t, ok)
	assert.Equal(t, "a.png", v)

	SetAttr(img, "alt", "y")
	SetAttr(img, "title", "t")
	assert.Equal(t, "y", AttrOr(img, "alt", ""))
	assert.True(t, RemoveAttr(img, "title"))
	assert.False(t, RemoveAttr(img, "title"))

	assert.True(t, RenameAttr(img, "alt", "data-alt"))
	assert.False(t, HasAttr(img, "alt"))
	assert.Equal(t, "y", AttrOr(img, "data-alt", ""))
}

func TestTextSkipsScripts(t *testing.T) {
	doc := Parse(`<div>Hello
	<script>var x = 1;</script>   <b>there</b></div>`)
	assert.Equal(t, "Hello there", Text(doc.Elements("div")[0]))
}

func TestDecode(t *testing.T) {
	utf := []byte("<p>café</p>")
	assert.Equal(t, "<p>café</p>", Decode(utf))

	latin1 := []byte("<p>Le caf\xe9 de la gare est tr\xe8s agr\xe9able, on y mange une cr\xe8me br\xfbl\xe9e d\xe9licieuse.</p>")
	assert.True(t, utf8.ValidString(Decode(latin1)))

	doc := ParseBytes(latin1)
	assert.Equal(t, 1, doc.Find("p").Length())
}

func TestSelectDocumentOrder(t *testing.T) {
	doc := Parse(`<area href="/m"><p><img src="a.png"></p><input type="image" src="b.png"><img src="c.png">`)
	var got []string
	for _, n := range doc.Select("img, input, area[href]") {
		got = append(got, n.Data)
	}
	assert.Equal(t, []string{"area", "img", "input", "img"}, got)

	assert.Empty(t, doc.Select("p[["))

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("class", "lead")
	})
	assert.Equal(t, "lead", AttrOr(doc.Select("p.lead")[0], "class", ""))
}
