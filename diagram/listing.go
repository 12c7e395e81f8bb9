package diagram

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"tracediag/trace"
)

// sourceLines splits source into display lines, trailing line break does
// not start a new line.
func sourceLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

// LineCount returns number of source lines as the listing shows them.
func LineCount(source string) int {
	return len(sourceLines(source))
}

// renderListing writes numbered source lines into parent in a single pass
// over tokens, starting at vertical position top. Returns position right
// below the last line.
func (g *Generator) renderListing(parent *etree.Element, tokens []trace.Token, top float64) (float64, error) {
	geo := &g.cfg.Geometry

	h := top
	number := 0
	var line *etree.Element
	for _, t := range tokens {
		if line == nil {
			number++
			line = parent.CreateElement("text")
			line.CreateAttr("font-size", px(geo.LineNumberFontSize))
			line.CreateAttr("fill", g.cfg.Palette.LineNumber)
			line.CreateAttr("x", num(geo.LineNumberX))
			line.CreateAttr("y", num(h+geo.Baseline))
			line.SetText(strconv.Itoa(number))
			line.CreateElement("tspan").SetText(nbsp + nbsp)
		}
		if t.IsLineBreak() {
			line = nil
			h += geo.LineHeight
			continue
		}
		if err := g.colorizer.Run(line, t); err != nil {
			return 0, err
		}
	}
	if line != nil {
		h += geo.LineHeight
	}
	g.log.Debug("Code listing rendered", zap.Int("lines", number), zap.Float64("height", h))
	return h, nil
}
