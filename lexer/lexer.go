// Package lexer tokenizes program text with chroma lexers and maps chroma
// token types onto diagram token kinds.
package lexer

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"tracediag/trace"
)

// Lexer implements trace.Tokenizer for a single language.
type Lexer struct {
	name  string
	lexer chroma.Lexer
}

// New returns lexer for language, name is anything chroma understands
// ("c", "python", ...).
func New(language string) (*Lexer, error) {
	l := lexers.Get(language)
	if l == nil {
		return nil, fmt.Errorf("no lexer for language %q", language)
	}
	return &Lexer{name: l.Config().Name, lexer: chroma.Coalesce(l)}, nil
}

// Name returns canonical language name.
func (l *Lexer) Name() string {
	return l.name
}

// Tokenize splits text into tokens. Every line break is a separate text
// token.
func (l *Lexer) Tokenize(text string) ([]trace.Token, error) {
	it, err := l.lexer.Tokenise(nil, text)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize with %s lexer: %w", l.name, err)
	}

	var tokens []trace.Token
	for _, ct := range it.Tokens() {
		if ct.Value == "" {
			continue
		}
		kind := kindOf(ct.Type)
		tokens = appendSplit(tokens, trace.Token{Kind: kind, Text: ct.Value, Class: ct.Type.String()})
	}
	return tokens, nil
}

// appendSplit cuts line breaks out of whitespace runs, lexers happily glue
// trailing blanks and newlines together.
func appendSplit(tokens []trace.Token, t trace.Token) []trace.Token {
	if t.Kind != trace.KindText || !strings.Contains(t.Text, "\n") || t.Text == "\n" {
		return append(tokens, t)
	}
	rest := t.Text
	for len(rest) > 0 {
		i := strings.IndexByte(rest, '\n')
		switch {
		case i < 0:
			tokens = append(tokens, trace.Token{Kind: t.Kind, Text: rest, Class: t.Class})
			rest = ""
		case i == 0:
			tokens = append(tokens, trace.Token{Kind: t.Kind, Text: "\n", Class: t.Class})
			rest = rest[1:]
		default:
			tokens = append(tokens, trace.Token{Kind: t.Kind, Text: rest[:i], Class: t.Class})
			rest = rest[i:]
		}
	}
	return tokens
}

func kindOf(tt chroma.TokenType) trace.Kind {
	switch tt {
	case chroma.Text, chroma.TextWhitespace, chroma.Operator, chroma.Punctuation:
		return trace.KindText
	case chroma.Name, chroma.NameBuiltin, chroma.NameBuiltinPseudo, chroma.NameOther:
		return trace.KindName
	case chroma.NameFunction:
		return trace.KindFunction
	case chroma.LiteralStringEscape:
		return trace.KindStringEscape
	case chroma.LiteralNumberInteger:
		return trace.KindInteger
	case chroma.Keyword, chroma.KeywordConstant, chroma.OperatorWord:
		return trace.KindKeyword
	case chroma.KeywordType:
		return trace.KindKeywordType
	}
	if tt.InSubCategory(chroma.LiteralString) {
		return trace.KindString
	}
	return trace.KindUnknown
}
