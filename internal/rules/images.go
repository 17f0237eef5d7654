package rules

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
	"golang.org/x/net/html"
)

// maxAltLength is the point past which alt text should move to a long
// description.
const maxAltLength = 150

var (
	redundantAltPrefix = regexp.MustCompile(`(?i)^\s*(an?\s+|the\s+)?(image|picture|photo|photograph|graphic|pic)\s+of\s+(an?\s+|the\s+)?`)
	placeholderAlt     = toSet("image", "img", "picture", "photo", "photograph", "graphic", "pic", "alt", "untitled", "placeholder")
)

var decorativeImageInfo = a11y.RuleInfo{
	ID:              "decorative-image",
	Message:         "Decorative image is exposed to assistive technology",
	Description:     "Images used as layout chrome (spacers, dividers, backgrounds) should have an empty alt attribute so screen readers skip them.",
	WCAGCriterion:   "1.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  `Set alt="" on purely decorative images.`,
}

type decorativeImage struct{ rule }

func (r decorativeImage) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, img := range doc.Elements("img") {
		if needsDecorativeAlt(img) {
			issues = append(issues, r.issue(img, map[string]string{"src": dom.TrimmedAttr(img, "src")}))
		}
	}
	return issues
}

func needsDecorativeAlt(img *html.Node) bool {
	if dom.IsHidden(img) || !isDecorativeFilename(dom.AttrOr(img, "src", "")) {
		return false
	}
	alt, ok := dom.Attr(img, "alt")
	return !ok || alt != ""
}

func fixDecorativeImage(doc *dom.Document) int {
	fixed := 0
	for _, img := range doc.Elements("img") {
		if needsDecorativeAlt(img) && replaceableAlt(img) {
			dom.SetAttr(img, "alt", "")
			fixed++
		}
	}
	return fixed
}

// replaceableAlt reports whether the alt of img carries no authored
// description: it is missing, blank, a file name or a placeholder word.
func replaceableAlt(img *html.Node) bool {
	alt, ok := dom.Attr(img, "alt")
	if !ok || strings.TrimSpace(alt) == "" {
		return true
	}
	switch altRedundancy(alt) {
	case "filename", "placeholder":
		return true
	}
	return false
}

var missingAltTextInfo = a11y.RuleInfo{
	ID:              "missing-alt-text",
	Message:         "Image is missing alternative text",
	Description:     "Every img, image button and image-map area needs an alt attribute describing its content or purpose.",
	WCAGCriterion:   "1.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Add an alt attribute that conveys the image's purpose, or alt=\"\" if it is decorative.",
}

type missingAltText struct{ rule }

func (r missingAltText) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range altCandidates(doc) {
		if lacksAlt(doc, n) {
			ctx := map[string]string{"element": n.Data}
			if src := dom.TrimmedAttr(n, "src"); src != "" {
				ctx["src"] = src
			}
			issues = append(issues, r.issue(n, ctx))
		}
	}
	return issues
}

// altCandidates returns img, input[type=image] and area[href] in order.
func altCandidates(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.Select("img, input[type], area[href]") {
		if n.Data == "input" && !strings.EqualFold(dom.TrimmedAttr(n, "type"), "image") {
			continue
		}
		out = append(out, n)
	}
	return out
}

func lacksAlt(doc *dom.Document, n *html.Node) bool {
	if dom.HasAttr(n, "alt") || dom.IsHidden(n) || hasRole(n, "presentation", "none") {
		return false
	}
	if dom.TrimmedAttr(n, "aria-label") != "" || labelledByText(doc, n) != "" {
		return false
	}
	return true
}

// fixMissingAltText labels images from their title, an enclosing figure's
// caption, then the file name. Decorative file names get alt="".
func fixMissingAltText(doc *dom.Document) int {
	fixed := 0
	for _, n := range altCandidates(doc) {
		if !lacksAlt(doc, n) {
			continue
		}
		src := dom.AttrOr(n, "src", "")
		if n.Data == "img" && isDecorativeFilename(src) {
			dom.SetAttr(n, "alt", "")
			fixed++
			continue
		}
		if label := deriveAlt(n); label != "" {
			dom.SetAttr(n, "alt", label)
			fixed++
		}
	}
	return fixed
}

func deriveAlt(n *html.Node) string {
	if title := dom.NormalizeSpace(dom.AttrOr(n, "title", "")); title != "" {
		return title
	}
	if fig := dom.Closest(n, "figure"); fig != nil {
		for _, c := range dom.ChildElements(fig) {
			if c.Data == "figcaption" {
				if text := dom.Text(c); text != "" {
					return text
				}
			}
		}
	}
	if n.Data == "area" {
		return hrefLabel(dom.AttrOr(n, "href", ""))
	}
	return labelFromFilename(dom.AttrOr(n, "src", ""))
}

var redundantAltTextInfo = a11y.RuleInfo{
	ID:              "redundant-alt-text",
	Message:         "Alternative text is redundant or a placeholder",
	Description:     "Screen readers already announce images as images; alt text like \"image of\", a file name or a placeholder word adds noise without describing the content.",
	WCAGCriterion:   "1.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityMinor,
	Recommendation:  "Describe what the image shows without words like \"image of\" or file names.",
}

type redundantAltText struct{ rule }

func (r redundantAltText) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, img := range doc.Elements("img") {
		alt, ok := dom.Attr(img, "alt")
		if !ok || dom.IsHidden(img) {
			continue
		}
		if reason := altRedundancy(alt); reason != "" {
			issues = append(issues, r.issuef(img, map[string]string{"alt": alt, "reason": reason},
				"Alternative text %q is redundant (%s)", alt, reason))
		}
	}
	return issues
}

// altRedundancy names why alt is redundant, or returns "".
func altRedundancy(alt string) string {
	trimmed := strings.TrimSpace(alt)
	switch {
	case trimmed == "":
		return ""
	case redundantAltPrefix.MatchString(trimmed):
		return "prefix"
	case looksLikeFilename(trimmed):
		return "filename"
	case placeholderAlt[strings.ToLower(trimmed)]:
		return "placeholder"
	}
	return ""
}

func fixRedundantAltText(doc *dom.Document) int {
	fixed := 0
	for _, img := range doc.Elements("img") {
		alt, ok := dom.Attr(img, "alt")
		if !ok || dom.IsHidden(img) {
			continue
		}
		var better string
		switch altRedundancy(alt) {
		case "prefix":
			better = stripAltPrefix(alt)
		case "filename":
			better = labelFromFilename(alt)
		case "placeholder":
			if title := dom.NormalizeSpace(dom.AttrOr(img, "title", "")); title != "" {
				better = title
			} else {
				better = labelFromFilename(dom.AttrOr(img, "src", ""))
			}
		default:
			continue
		}
		if better == "" || strings.EqualFold(better, strings.TrimSpace(alt)) || altRedundancy(better) != "" {
			continue
		}
		dom.SetAttr(img, "alt", better)
		fixed++
	}
	return fixed
}

func stripAltPrefix(alt string) string {
	out := strings.TrimSpace(alt)
	for redundantAltPrefix.MatchString(out) {
		out = strings.TrimSpace(redundantAltPrefix.ReplaceAllString(out, ""))
	}
	return utils.Capitalize(out)
}

var longAltTextInfo = a11y.RuleInfo{
	ID:              "long-alt-text",
	Message:         "Alternative text is too long",
	Description:     "Alt text longer than " + strconv.Itoa(maxAltLength) + " characters is hard to listen to; complex images need a separate long description.",
	WCAGCriterion:   "1.1.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityWarning,
	Recommendation:  "Keep alt text short and move detail into a caption, aria-describedby or adjacent text.",
}

type longAltText struct{ rule }

func (r longAltText) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, img := range doc.Elements("img") {
		alt := dom.NormalizeSpace(dom.AttrOr(img, "alt", ""))
		if l := utf8.RuneCountInString(alt); l > maxAltLength {
			issues = append(issues, r.issue(img, map[string]string{"length": strconv.Itoa(l)}))
		}
	}
	return issues
}
