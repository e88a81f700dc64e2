package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Descriptors holds @font-face descriptors as read back from CSS text.
type Descriptors struct {
	Family  string
	Weight  string
	Style   string
	Display string
	// Src has raw text of every src declaration in source order.
	Src []string
	// Locals and URLs are collected from all src declarations in source order.
	Locals []string
	URLs   []string
}

// Parser reads @font-face rules from stylesheets, everything else is skipped.
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

// Parse returns all @font-face rules found in data in source order.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) []Descriptors {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var faces []Descriptors
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			return faces
		case css.BeginAtRuleGrammar:
			if atRule := string(data); strings.EqualFold(atRule, "@font-face") {
				faces = append(faces, p.parseFontFace(parser))
			} else {
				p.skipAtRuleBlock(parser)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}
		case css.BeginRulesetGrammar:
			p.skipRuleset(parser)
		}
	}
}

// parseFontFace parses an @font-face block.
func (p *Parser) parseFontFace(parser *css.Parser) Descriptors {
	var ff Descriptors
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return ff
		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			raw := rawValue(values)
			switch strings.ToLower(string(data)) {
			case "font-family":
				ff.Family = unquote(raw)
			case "font-weight":
				ff.Weight = raw
			case "font-style":
				ff.Style = raw
			case "font-display":
				ff.Display = raw
			case "src":
				ff.Src = append(ff.Src, raw)
				locals, urls := splitSources(values)
				ff.Locals = append(ff.Locals, locals...)
				ff.URLs = append(ff.URLs, urls...)
			}
		}
	}
}

// splitSources extracts local() names and url() targets from src tokens.
func splitSources(tokens []css.Token) (locals, urls []string) {
	inLocal := false
	for _, t := range tokens {
		switch t.TokenType {
		case css.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			urls = append(urls, unquote(strings.TrimSpace(s)))
		case css.FunctionToken:
			inLocal = strings.EqualFold(string(t.Data), "local(")
		case css.StringToken:
			if inLocal {
				locals = append(locals, unquote(string(t.Data)))
			}
		case css.RightParenthesisToken:
			inLocal = false
		}
	}
	return locals, urls
}

func rawValue(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

func (p *Parser) skipRuleset(parser *css.Parser) {
	for {
		gt, _, _ := parser.Next()
		if gt == css.ErrorGrammar || gt == css.EndRulesetGrammar {
			return
		}
	}
}

// unquote removes surrounding quotes from a CSS string and resolves simple
// backslash escapes, including escaped newlines.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') || s[len(s)-1] != s[0] {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			if s[i] == '\n' {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
