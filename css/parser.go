// Package css checks user supplied stylesheets before they are embedded into
// generated diagrams.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Declaration is a single "property: value" pair.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a ruleset with all its selectors.
type Rule struct {
	Selectors    []string
	Declarations []Declaration
}

// Stylesheet is a checked list of plain rulesets.
type Stylesheet struct {
	Rules []Rule
}

// Parser parses CSS stylesheets into rulesets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text. Stylesheet ends up inside of a CDATA section of a
// self-contained document, so at-rules (imports, media queries, fonts) and
// anything which could terminate CDATA are rejected.
func (p *Parser) Parse(data []byte, source string) (*Stylesheet, error) {
	if bytes.Contains(data, []byte("]]>")) {
		return nil, fmt.Errorf("stylesheet %s contains CDATA terminator", source)
	}
	p.log.Debug("Parsing CSS", zap.String("source", source), zap.Int("bytes", len(data)))

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	sheet := &Stylesheet{}
	var selectors []string
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to parse stylesheet %s: %w", source, err)
			}
			p.log.Debug("Parsed CSS", zap.String("source", source), zap.Int("rules", len(sheet.Rules)))
			return sheet, nil

		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			return nil, fmt.Errorf("stylesheet %s: %s rules are not supported", source, data)

		case css.QualifiedRuleGrammar:
			selectors = append(selectors, splitSelectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			selectors = append(selectors, splitSelectors(data, parser.Values())...)
			rule := Rule{Selectors: selectors, Declarations: p.parseDeclarations(parser)}
			selectors = nil
			if len(rule.Selectors) == 0 {
				return nil, fmt.Errorf("stylesheet %s: ruleset without selector", source)
			}
			sheet.Rules = append(sheet.Rules, rule)
		}
	}
}

// splitSelectors builds selector text from token data and splits it by comma.
func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations reads property declarations until the end of ruleset.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if value := joinValue(parser.Values()); value != "" {
				decls = append(decls, Declaration{Property: string(data), Value: value})
			}
		}
	}
}

// joinValue collapses whitespace between value tokens into single space.
func joinValue(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// Scoped renders stylesheet with every selector prefixed by "#id ", so rules
// apply only inside of the element with that id.
func (s *Stylesheet) Scoped(id string) string {
	var sb strings.Builder
	for _, r := range s.Rules {
		for i, sel := range r.Selectors {
			if i > 0 {
				sb.WriteString(", ")
			}
			if id != "" {
				sb.WriteString("#" + id + " ")
			}
			sb.WriteString(sel)
		}
		sb.WriteString(" {")
		for _, d := range r.Declarations {
			sb.WriteString(" " + d.Property + ": " + d.Value + ";")
		}
		sb.WriteString(" }\n")
	}
	return sb.String()
}

// String renders stylesheet without scoping.
func (s *Stylesheet) String() string {
	return s.Scoped("")
}
