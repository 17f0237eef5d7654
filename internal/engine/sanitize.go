package engine

import "github.com/microcosm-cc/bluemonday"

// NewSanitizer returns bluemonday's UGC policy widened to keep the markup
// fixers produce: landmarks, ARIA, table header attributes and media
// controls. extraAttrs are allowed on every element, typically the
// recognized aria-* names.
func NewSanitizer(extraAttrs ...string) *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	p.AllowElements("main", "nav", "header", "footer", "aside", "section", "article", "figure", "figcaption", "fieldset", "legend", "label")
	p.AllowAttrs("role", "tabindex", "lang", "title", "id").Globally()
	p.AllowAttrs("aria-label", "aria-labelledby", "aria-describedby", "aria-hidden", "aria-level").Globally()
	if len(extraAttrs) > 0 {
		p.AllowAttrs(extraAttrs...).Globally()
	}

	p.AllowAttrs("alt").OnElements("img", "area")
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("scope", "headers").OnElements("th", "td")

	p.AllowElements("video", "audio", "track", "source")
	p.AllowAttrs("controls", "autoplay", "muted", "loop", "poster").OnElements("video", "audio")
	p.AllowAttrs("kind", "srclang", "label", "default").OnElements("track")
	p.AllowAttrs("src", "type").OnElements("video", "audio", "track", "source")

	return p
}
