package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ditashi/jsbeautifier-go/jsbeautifier"
	"github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
	"github.com/yosssi/gohtml"
)

const indent = "  "

func readable(text string, kind Kind) (string, error) {
	switch kind {
	case HTML:
		return gohtml.Format(text), nil
	case CSS:
		out, err := indentCSS(text)
		if err != nil {
			return "", fmt.Errorf("failed to indent %s: %w", kind, err)
		}
		return out, nil
	case JS:
		opts := jsbeautifier.DefaultOptions()
		opts["indent_size"] = len(indent)
		out, err := jsbeautifier.Beautify(&text, opts)
		if err != nil {
			return "", fmt.Errorf("failed to indent %s: %w", kind, err)
		}
		return strings.TrimSpace(out), nil
	default:
		return tidy(text), nil
	}
}

// indentCSS writes one rule, declaration or comment per line, nesting the
// bodies of rulesets and at-rules.
func indentCSS(text string) (string, error) {
	p := cssparse.NewParser(parse.NewInputString(text), false)

	var sb strings.Builder
	depth := 0
	line := func(s string) {
		sb.WriteString(strings.Repeat(indent, depth))
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	var selectors []string
	for {
		gt, _, data := p.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			if errors.Is(p.Err(), io.EOF) {
				return strings.TrimSpace(sb.String()), nil
			}
			return "", p.Err()
		case cssparse.CommentGrammar, cssparse.TokenGrammar:
			line(string(data))
		case cssparse.AtRuleGrammar:
			line(strings.TrimSpace(string(data)+" "+joinValues(p.Values())) + ";")
		case cssparse.BeginAtRuleGrammar:
			line(strings.TrimSpace(string(data)+" "+joinValues(p.Values())) + " {")
			depth++
		case cssparse.QualifiedRuleGrammar:
			selectors = append(selectors, joinValues(p.Values()))
		case cssparse.BeginRulesetGrammar:
			selectors = append(selectors, joinValues(p.Values()))
			line(strings.Join(selectors, ", ") + " {")
			selectors = selectors[:0]
			depth++
		case cssparse.EndRulesetGrammar, cssparse.EndAtRuleGrammar:
			depth = max(depth-1, 0)
			line("}")
		case cssparse.DeclarationGrammar:
			line(string(data) + ": " + joinValues(p.Values()) + ";")
		case cssparse.CustomPropertyGrammar:
			line(string(data) + ":" + joinValues(p.Values()) + ";")
		}
	}
}

// joinValues concatenates tokens with runs of whitespace collapsed to one
// space.
func joinValues(values []cssparse.Token) string {
	var sb strings.Builder
	space := false
	for _, v := range values {
		if v.TokenType == cssparse.WhitespaceToken {
			space = true
			continue
		}
		if space && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		space = false
		sb.Write(v.Data)
	}
	return sb.String()
}

// tidy normalizes line endings and strips trailing whitespace.
func tidy(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
