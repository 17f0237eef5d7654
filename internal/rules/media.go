package rules

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/a11y"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"golang.org/x/net/html"
)

// maxRefreshDelay is twenty hours, past which WCAG 2.2.1 no longer applies.
const maxRefreshDelay = 72000

// minMaximumScale is the zoom users must be able to reach.
const minMaximumScale = 2.0

var marqueeAttrs = []string{
	"behavior", "direction", "scrollamount", "scrolldelay", "loop",
	"truespeed", "hspace", "vspace", "bgcolor",
}

var mediaAutoplayInfo = a11y.RuleInfo{
	ID:              "media-autoplay",
	Message:         "Media plays automatically without controls",
	Description:     "Audio that starts on its own interferes with screen reader speech. Users need a way to pause or stop it.",
	WCAGCriterion:   "1.4.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Remove autoplay or add controls so the media can be paused.",
}

type mediaAutoplay struct{ rule }

func (r mediaAutoplay) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range uncontrolledAutoplay(doc) {
		issues = append(issues, r.issue(n, map[string]string{"element": n.Data}))
	}
	return issues
}

// uncontrolledAutoplay returns autoplaying audio and unmuted video without
// controls.
func uncontrolledAutoplay(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, n := range doc.Elements("audio", "video") {
		if !dom.HasAttr(n, "autoplay") || dom.HasAttr(n, "controls") {
			continue
		}
		if n.Data == "video" && dom.HasAttr(n, "muted") {
			continue
		}
		out = append(out, n)
	}
	return out
}

func fixMediaAutoplay(doc *dom.Document) int {
	nodes := uncontrolledAutoplay(doc)
	for _, n := range nodes {
		dom.SetAttr(n, "controls", "")
	}
	return len(nodes)
}

var mediaMissingCaptionsInfo = a11y.RuleInfo{
	ID:              "media-missing-captions",
	Message:         "Video has no captions track",
	Description:     "Prerecorded video with audio needs synchronized captions for deaf and hard-of-hearing users.",
	WCAGCriterion:   "1.2.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Add a <track kind=\"captions\"> with a caption file.",
}

type mediaMissingCaptions struct{ rule }

func (r mediaMissingCaptions) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, v := range doc.Elements("video") {
		if dom.IsHidden(v) || dom.HasAttr(v, "muted") || hasCaptionTrack(v) {
			continue
		}
		issues = append(issues, r.issue(v, nil))
	}
	return issues
}

func hasCaptionTrack(media *html.Node) bool {
	for _, t := range dom.Descendants(media, "track") {
		switch strings.ToLower(dom.TrimmedAttr(t, "kind")) {
		case "captions", "subtitles":
			return true
		}
	}
	return false
}

var iframeMissingTitleInfo = a11y.RuleInfo{
	ID:              "iframe-missing-title",
	Message:         "Frame has no title",
	Description:     "Screen readers announce frames by their title. Untitled frames give no clue what they contain.",
	WCAGCriterion:   "4.1.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Add a title attribute describing the frame's content.",
}

type iframeMissingTitle struct{ rule }

func (r iframeMissingTitle) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, f := range untitledFrames(doc) {
		issues = append(issues, r.issue(f, map[string]string{"src": dom.TrimmedAttr(f, "src")}))
	}
	return issues
}

func untitledFrames(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, f := range doc.Elements("iframe", "frame") {
		if dom.IsHidden(f) || hasRole(f, "presentation", "none") {
			continue
		}
		if dom.TrimmedAttr(f, "title") != "" || controlName(doc, f) != "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

func fixIframeMissingTitle(doc *dom.Document) int {
	frames := untitledFrames(doc)
	for _, f := range frames {
		dom.SetAttr(f, "title", frameTitle(dom.AttrOr(f, "src", "")))
	}
	return len(frames)
}

func frameTitle(src string) string {
	if u, err := url.Parse(strings.TrimSpace(src)); err == nil && u.Host != "" {
		return "Embedded content from " + hostLabel(u.Hostname())
	}
	return "Embedded content"
}

var obsoleteElementInfo = a11y.RuleInfo{
	ID:              "obsolete-element",
	Message:         "Obsolete moving-content element",
	Description:     "blink and marquee produce moving or flashing content that cannot be paused.",
	WCAGCriterion:   "2.2.2",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeveritySerious,
	Recommendation:  "Replace the element with static markup.",
}

type obsoleteElement struct{ rule }

func (r obsoleteElement) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, n := range doc.Elements("blink", "marquee") {
		issues = append(issues, r.issuef(n, map[string]string{"element": n.Data}, "<%s> is obsolete", n.Data))
	}
	return issues
}

func fixObsoleteElement(doc *dom.Document) int {
	nodes := doc.Elements("blink", "marquee")
	for _, n := range nodes {
		dom.Rename(n, "span", marqueeAttrs...)
	}
	return len(nodes)
}

var metaRefreshInfo = a11y.RuleInfo{
	ID:              "meta-refresh",
	Message:         "Page refreshes or redirects on a timer",
	Description:     "Timed refreshes move users away before they finish reading, with no way to extend the time.",
	WCAGCriterion:   "2.2.1",
	WCAGLevel:       a11y.LevelA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Redirect immediately on the server or let users trigger the refresh.",
}

type metaRefresh struct{ rule }

func (r metaRefresh) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, m := range doc.Select("meta[http-equiv]") {
		if !strings.EqualFold(dom.TrimmedAttr(m, "http-equiv"), "refresh") {
			continue
		}
		delay, ok := refreshDelay(dom.AttrOr(m, "content", ""))
		if ok && delay > 0 && delay <= maxRefreshDelay {
			issues = append(issues, r.issuef(m, map[string]string{"delay": strconv.Itoa(delay)},
				"Page refreshes after %d seconds", delay))
		}
	}
	return issues
}

// refreshDelay parses the leading seconds of a refresh content value.
func refreshDelay(content string) (int, bool) {
	head, _, _ := strings.Cut(content, ";")
	head, _, _ = strings.Cut(head, ",")
	head = strings.TrimSpace(head)
	if dot := strings.IndexByte(head, '.'); dot >= 0 {
		head = head[:dot]
	}
	delay, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return delay, true
}

var viewportZoomDisabledInfo = a11y.RuleInfo{
	ID:              "viewport-zoom-disabled",
	Message:         "Viewport prevents zooming",
	Description:     "user-scalable=no or a low maximum-scale stops people with low vision from enlarging text.",
	WCAGCriterion:   "1.4.4",
	WCAGLevel:       a11y.LevelAA,
	DefaultSeverity: a11y.SeverityCritical,
	Recommendation:  "Remove user-scalable=no and any maximum-scale below 2.",
}

type viewportZoomDisabled struct{ rule }

type viewportProp struct {
	key, val string
}

// String renders the property as written, with a bare key when it has no value.
func (p viewportProp) String() string {
	if p.val == "" {
		return p.key
	}
	return p.key + "=" + p.val
}

func (r viewportZoomDisabled) Detect(doc *dom.Document, _ *a11y.Env) []a11y.Issue {
	var issues []a11y.Issue
	for _, m := range viewportMetas(doc) {
		var blocked []string
		for _, p := range parseViewport(dom.AttrOr(m, "content", "")) {
			if blocksZoom(p) {
				blocked = append(blocked, p.String())
			}
		}
		if len(blocked) > 0 {
			issues = append(issues, r.issue(m, map[string]string{"properties": strings.Join(blocked, ", ")}))
		}
	}
	return issues
}

func viewportMetas(doc *dom.Document) []*html.Node {
	var out []*html.Node
	for _, m := range doc.Select("meta[name][content]") {
		if strings.EqualFold(dom.TrimmedAttr(m, "name"), "viewport") {
			out = append(out, m)
		}
	}
	return out
}

func parseViewport(content string) []viewportProp {
	var props []viewportProp
	for _, part := range strings.FieldsFunc(content, func(r rune) bool { return r == ',' || r == ';' }) {
		k, v, _ := strings.Cut(part, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		props = append(props, viewportProp{key: k, val: strings.TrimSpace(v)})
	}
	return props
}

func blocksZoom(p viewportProp) bool {
	switch p.key {
	case "user-scalable":
		v := strings.ToLower(p.val)
		return v == "no" || v == "0"
	case "maximum-scale":
		f, err := strconv.ParseFloat(p.val, 64)
		return err == nil && f < minMaximumScale
	}
	return false
}

func fixViewportZoomDisabled(doc *dom.Document) int {
	fixed := 0
	for _, m := range viewportMetas(doc) {
		props := parseViewport(dom.AttrOr(m, "content", ""))
		var kept []string
		dropped := false
		for _, p := range props {
			if blocksZoom(p) {
				dropped = true
				continue
			}
			kept = append(kept, p.String())
		}
		if !dropped {
			continue
		}
		dom.SetAttr(m, "content", strings.Join(kept, ", "))
		fixed++
	}
	return fixed
}
