package diagram

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"tracediag/config"
	"tracediag/trace"
)

const nbsp = "\u00a0"

// Colorizer turns tokens into styled text runs.
type Colorizer struct {
	palette  *config.PaletteConfig
	fontSize string
	calls    map[string]bool
}

func NewColorizer(cfg *config.DiagramConfig) *Colorizer {
	c := &Colorizer{
		palette:  &cfg.Palette,
		fontSize: px(cfg.Geometry.FontSize),
		calls:    make(map[string]bool, len(cfg.CallTargets)),
	}
	for _, name := range cfg.CallTargets {
		c.calls[name] = true
	}
	return c
}

// Run appends single <tspan> for the token to parent.
func (c *Colorizer) Run(parent *etree.Element, t trace.Token) error {
	text, color := t.Text, ""
	switch t.Kind {
	case trace.KindName:
		color = c.palette.Normal
		if c.calls[t.Text] {
			color = c.palette.Function
		}
	case trace.KindText:
		text, color = blanks(t.Text), c.palette.Normal
	case trace.KindString:
		color = c.palette.String
	case trace.KindStringEscape, trace.KindKeyword, trace.KindKeywordType:
		color = c.palette.Keyword
	case trace.KindInteger:
		color = c.palette.Number
	case trace.KindFunction:
		color = c.palette.Function
	default:
		class := t.Class
		if class == "" {
			class = t.Kind.String()
		}
		return &UnsupportedTokenError{Text: t.Text, Class: class}
	}

	span := parent.CreateElement("tspan")
	span.CreateAttr("font-size", c.fontSize)
	span.CreateAttr("fill", color)
	span.SetText(text)
	return nil
}

// blanks makes runs of spaces or tabs survive XML whitespace handling.
func blanks(text string) string {
	switch {
	case text == "":
		return text
	case strings.Trim(text, " ") == "":
		return strings.Repeat(nbsp, len(text))
	case strings.Trim(text, "\t") == "":
		return strings.Repeat(nbsp, 4*len(text))
	}
	return text
}

func px(size int) string {
	return strconv.Itoa(size) + "px"
}

// num formats coordinate without trailing zeroes.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
