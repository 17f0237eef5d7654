package rules

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// minContrastRatio is the WCAG 1.4.3 threshold for normal text.
const minContrastRatio = 4.5

type rgb struct {
	r, g, b uint8
}

func (c rgb) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// namedColors covers the CSS keywords that show up in inline styles.
var namedColors = map[string]rgb{
	"black":      {0, 0, 0},
	"white":      {255, 255, 255},
	"red":        {255, 0, 0},
	"green":      {0, 128, 0},
	"blue":       {0, 0, 255},
	"yellow":     {255, 255, 0},
	"orange":     {255, 165, 0},
	"purple":     {128, 0, 128},
	"gray":       {128, 128, 128},
	"grey":       {128, 128, 128},
	"silver":     {192, 192, 192},
	"lightgray":  {211, 211, 211},
	"lightgrey":  {211, 211, 211},
	"darkgray":   {169, 169, 169},
	"darkgrey":   {169, 169, 169},
	"gainsboro":  {220, 220, 220},
	"whitesmoke": {245, 245, 245},
	"navy":       {0, 0, 128},
	"maroon":     {128, 0, 0},
	"olive":      {128, 128, 0},
	"teal":       {0, 128, 128},
	"aqua":       {0, 255, 255},
	"cyan":       {0, 255, 255},
	"fuchsia":    {255, 0, 255},
	"magenta":    {255, 0, 255},
	"lime":       {0, 255, 0},
	"pink":       {255, 192, 203},
	"beige":      {245, 245, 220},
	"ivory":      {255, 255, 240},
	"khaki":      {240, 230, 140},
	"brown":      {165, 42, 42},
	"gold":       {255, 215, 0},
}

// styleDecls parses an inline style attribute into lower-cased
// property/value pairs. Later declarations win.
func styleDecls(style string) map[string]string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		val = strings.TrimSpace(strings.TrimSuffix(val, "!important"))
		if prop != "" && val != "" {
			decls[prop] = val
		}
	}
	return decls
}

// inlineColors returns the explicit foreground and background colors of a
// style attribute. ok is false whenever either one is missing or cannot be
// judged without a renderer.
func inlineColors(style string) (fg, bg rgb, ok bool) {
	decls := styleDecls(style)
	fgVal, hasFg := decls["color"]
	bgVal, hasBg := decls["background-color"]
	if !hasBg {
		bgVal, hasBg = decls["background"]
	}
	if !hasFg || !hasBg {
		return rgb{}, rgb{}, false
	}
	if fg, ok = parseColor(fgVal); !ok {
		return rgb{}, rgb{}, false
	}
	if bg, ok = parseColor(bgVal); !ok {
		return rgb{}, rgb{}, false
	}
	return fg, bg, true
}

// parseColor accepts opaque hex, rgb()/rgba() and named colors only.
func parseColor(v string) (rgb, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	if strings.ContainsAny(v, " ") && !strings.HasPrefix(v, "rgb") {
		return rgb{}, false
	}
	switch {
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "rgb(") || strings.HasPrefix(v, "rgba("):
		return parseRGBFunc(v)
	}
	c, ok := namedColors[v]
	return c, ok
}

func parseHex(h string) (rgb, bool) {
	switch len(h) {
	case 3, 4:
		if len(h) == 4 && h[3] != 'f' {
			return rgb{}, false
		}
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	case 8:
		if h[6:] != "ff" {
			return rgb{}, false
		}
		h = h[:6]
	default:
		return rgb{}, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

func parseRGBFunc(v string) (rgb, bool) {
	open, end := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || end < open {
		return rgb{}, false
	}
	inner := strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : end])
	parts := strings.Fields(inner)
	if len(parts) != 3 && len(parts) != 4 {
		return rgb{}, false
	}
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSuffix(parts[3], "%"), 64)
		if err != nil {
			return rgb{}, false
		}
		if strings.HasSuffix(parts[3], "%") {
			a /= 100
		}
		if a < 1 {
			return rgb{}, false
		}
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		p := parts[i]
		f, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return rgb{}, false
		}
		if strings.HasSuffix(p, "%") {
			f = f * 255 / 100
		}
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, f))))
	}
	return rgb{ch[0], ch[1], ch[2]}, true
}

// luminance is the WCAG relative luminance of c.
func luminance(c rgb) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.r) + 0.7152*lin(c.g) + 0.0722*lin(c.b)
}

// contrastRatio returns (L1 + 0.05) / (L2 + 0.05) with L1 the lighter color.
func contrastRatio(a, b rgb) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
