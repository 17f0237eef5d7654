package rules

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
	"golang.org/x/net/html"
)

// maxSuggestDistance bounds typo corrections for roles, attributes and
// autocomplete tokens.
const maxSuggestDistance = 2

var (
	sizeSuffix   = regexp.MustCompile(`(?i)([-_]\d+x\d+|@\dx|[-_](thumb|small|medium|large|scaled))$`)
	cameraName   = regexp.MustCompile(`(?i)^(img|image|dsc|dscn|dcim|pxl|photo|screenshot)?[\s_-]*\d*$`)
	imageExt     = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|svg|bmp|tiff?|avif|ico)$`)
	decorativeRe = regexp.MustCompile(`(?i)(^|[\W_])(spacer|divider|separator|pixel|blank|transparent|shim|bg|background|border|corner|shadow|bullet|1x1)([\W_]|$)`)
)

// iconStyleClasses are icon-font modifiers that carry no meaning.
var iconStyleClasses = toSet(
	"fa", "fas", "far", "fab", "fal", "fad", "fa-solid", "fa-regular",
	"fa-brands", "fa-light", "fa-thin", "fa-duotone", "fa-fw", "fa-lg",
	"fa-xs", "fa-sm", "fa-spin", "fa-pulse", "fa-border", "fa-inverse",
	"bi", "glyphicon", "icon",
)

var iconPrefixes = []string{"fa-", "icon-", "bi-", "glyphicon-"}

// fileStem returns the last path segment of src without query, extension
// or size suffixes.
func fileStem(src string) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(strings.ToLower(src), "data:") {
		return ""
	}
	if u, err := url.Parse(src); err == nil {
		src = u.Path
	}
	base := path.Base(src)
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return sizeSuffix.ReplaceAllString(base, "")
}

// labelFromFilename derives a readable label from an image source. Camera
// style names with no words become "Image".
func labelFromFilename(src string) string {
	stem := fileStem(src)
	if stem == "" {
		return ""
	}
	if cameraName.MatchString(stem) {
		return "Image"
	}
	return utils.Humanize(stem)
}

// isDecorativeFilename reports whether the image source looks like layout
// chrome rather than content.
func isDecorativeFilename(src string) bool {
	stem := fileStem(src)
	return stem != "" && decorativeRe.MatchString(stem)
}

// looksLikeFilename reports whether alt text is a file name.
func looksLikeFilename(alt string) bool {
	alt = strings.TrimSpace(alt)
	return alt != "" && !strings.Contains(alt, " ") && imageExt.MatchString(alt)
}

// iconLabel derives a label from icon-font classes on n or its descendants.
func iconLabel(n *html.Node) string {
	nodes := append([]*html.Node{n}, dom.Descendants(n, "i", "span", "svg", "em")...)
	for _, node := range nodes {
		for _, class := range strings.Fields(dom.AttrOr(node, "class", "")) {
			class = strings.ToLower(class)
			if iconStyleClasses[class] || sizeModifier(class) {
				continue
			}
			for _, prefix := range iconPrefixes {
				if strings.HasPrefix(class, prefix) && len(class) > len(prefix) {
					return utils.Humanize(strings.TrimPrefix(class, prefix))
				}
			}
		}
	}
	return ""
}

// sizeModifier matches fa-2x, fa-10x and friends.
func sizeModifier(class string) bool {
	rest, ok := strings.CutPrefix(class, "fa-")
	if !ok || !strings.HasSuffix(rest, "x") {
		return false
	}
	for _, r := range strings.TrimSuffix(rest, "x") {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hrefLabel derives a label from the last meaningful path segment of href,
// falling back to its host.
func hrefLabel(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "mailto":
		return "Email " + u.Opaque
	case "tel":
		return "Call " + u.Opaque
	case "javascript":
		return ""
	}
	segment := strings.Trim(u.Path, "/")
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}
	if ext := path.Ext(segment); ext != "" {
		segment = strings.TrimSuffix(segment, ext)
	}
	if label := utils.Humanize(segment); label != "" {
		return label
	}
	return hostLabel(u.Host)
}

// hostLabel strips a leading "www." from a host.
func hostLabel(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// suggest returns the unique candidate within edit distance two.
func suggest(word string, candidates []string) (string, bool) {
	return utils.Closest(strings.ToLower(word), candidates, maxSuggestDistance)
}
