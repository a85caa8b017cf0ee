package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nikolalohinski/gonja/v2/exec"
)

// The three directives share "}" as their closer, which the engine's lexer
// cannot tell apart. Before lexing, each closer is swapped for a private-use
// rune that names its directive.
const (
	variableEnd = "\uE000"
	blockEnd    = "\uE001"
	commentEnd  = "\uE002"
)

// parentFilter is applied to the target of every attribute or item access.
// It turns an undefined or null parent into an empty sequence so that
// basics.email renders empty when basics is missing.
const parentFilter = "_parent"

type directive struct {
	start string
	end   string
	expr  bool
}

var directives = []directive{
	{start: VariableStart, end: variableEnd, expr: true},
	{start: BlockStart, end: blockEnd, expr: true},
	{start: CommentStart, end: commentEnd},
}

// Blocks whose content the engine reads verbatim, keyed by name, with the
// directive that ends them.
var rawSections = map[string]*regexp.Regexp{
	"raw":     regexp.MustCompile(regexp.QuoteMeta(BlockStart) + `[-+]?\s*endraw\s*[-+]?\}`),
	"comment": regexp.MustCompile(regexp.QuoteMeta(BlockStart) + `[-+]?\s*endcomment\s*[-+]?\}`),
}

// prepare rewrites a template for the engine. A directive's closer is the
// first "}" outside nested braces and, in expressions, outside string
// literals. Comments end at their first "}".
//
// Block and comment directives also get line handling here: whitespace
// between the start of a line and the directive is dropped, and so is the
// first newline after it. A "+" just inside either delimiter turns that off
// for its side.
func prepare(source string) (string, error) {
	out := make([]byte, 0, len(source)+len(source)/8)

	line := 1
	for i := 0; i < len(source); {
		d, ok := directiveAt(source, i)
		if !ok {
			if source[i] == '\n' {
				line++
			}
			out = append(out, source[i])
			i++
			continue
		}

		from := i + len(d.start)
		end := closer(source, from, d.expr)
		if end < 0 {
			return "", fmt.Errorf("line %d: %s is never closed", line, d.start)
		}

		raw := source[from:end]
		body := raw
		if d.expr {
			body = lenientBody(body, d.start == BlockStart)
		}
		wholeLine := d.start != VariableStart
		if wholeLine && !strings.HasPrefix(raw, "+") {
			out = stripIndent(out)
		}
		out = append(out, d.start...)
		out = append(out, body...)
		out = append(out, d.end...)
		line += strings.Count(source[i:end], "\n")
		i = end + 1
		if wholeLine && !strings.HasSuffix(raw, "+") {
			switch {
			case strings.HasPrefix(source[i:], "\n"):
				i++
				line++
			case strings.HasPrefix(source[i:], "\r\n"):
				i += 2
				line++
			}
		}

		if d.start != BlockStart {
			continue
		}
		name := strings.Trim(raw, "-+ \t\r\n")
		if endRe, ok := rawSections[name]; ok {
			loc := endRe.FindStringIndex(source[i:])
			if loc == nil {
				return "", fmt.Errorf("line %d: %s section is never closed", line, name)
			}
			out = append(out, source[i:i+loc[0]]...)
			line += strings.Count(source[i:i+loc[0]], "\n")
			i += loc[0]
		}
	}
	return string(out), nil
}

// stripIndent drops trailing spaces and tabs from out when nothing else
// precedes them on the current line.
func stripIndent(out []byte) []byte {
	j := len(out)
	for j > 0 && (out[j-1] == ' ' || out[j-1] == '\t') {
		j--
	}
	if j == 0 || out[j-1] == '\n' {
		return out[:j]
	}
	return out
}

func directiveAt(s string, i int) (directive, bool) {
	if s[i] != '\\' {
		return directive{}, false
	}
	for _, d := range directives {
		if strings.HasPrefix(s[i:], d.start) {
			return d, true
		}
	}
	return directive{}, false
}

// closer returns the index of the "}" ending the directive body that starts
// at from, or -1.
func closer(s string, from int, expr bool) int {
	if !expr {
		if j := strings.IndexByte(s[from:], '}'); j >= 0 {
			return from + j
		}
		return -1
	}

	depth := 0
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			j := quoteEnd(s, i)
			if j < 0 {
				return -1
			}
			i = j
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// quoteEnd returns the index of the quote closing the string literal opened at
// open. A quote preceded by a backslash does not close it, as in the engine.
func quoteEnd(s string, open int) int {
	q := s[open]
	for i := open + 1; i < len(s); i++ {
		if s[i] == q && s[i-1] != '\\' {
			return i
		}
	}
	return -1
}

// Words that never start an attribute chain.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"if": true, "elif": true, "else": true, "for": true, "recursive": true,
	"as": true, "import": true, "from": true, "with": true, "without": true,
	"context": true, "ignore": true, "missing": true,
	"true": true, "false": true, "none": true, "True": true, "False": true, "None": true, "nil": true,
}

// lenientBody routes attribute and item access in a directive body through
// parentFilter. The target of a set statement is left alone.
func lenientBody(body string, block bool) string {
	if !block {
		return lenientExpr(body)
	}
	head := strings.TrimLeft(body, "-+ \t")
	if !strings.HasPrefix(head, "set") || len(head) == 3 || isIdentByte(head[3]) {
		return lenientExpr(body)
	}
	if eq := assignIndex(body); eq >= 0 {
		return body[:eq+1] + lenientExpr(body[eq+1:])
	}
	return body
}

// assignIndex finds the first "=" that is not part of a comparison.
func assignIndex(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'':
			j := quoteEnd(s, i)
			if j < 0 {
				return -1
			}
			i = j
		case '=':
			if i+1 < len(s) && s[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("=!<>", s[i-1]) >= 0 {
				continue
			}
			return i
		}
	}
	return -1
}

// lenientExpr rewrites x.a[0].b as ((x|_parent).a|_parent)[0]... so a missing
// link anywhere in the chain yields undefined. The receiver of a method call,
// as in name.upper(), is not wrapped: the engine resolves methods from the
// unparenthesized chain.
func lenientExpr(expr string) string {
	var b strings.Builder
	b.Grow(len(expr) * 2)

	start := -1 // output offset of the current chain, or -1
	var stack []int
	afterPipe := false
	filterName := false

	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '"' || c == '\'':
			j := quoteEnd(expr, i)
			if j < 0 {
				j = len(expr) - 1
			}
			b.WriteString(expr[i : j+1])
			i = j + 1
			start = -1
			filterName = false

		case isIdentStart(expr, i):
			j := identEnd(expr, i)
			word := expr[i:j]
			switch {
			case afterPipe:
				start = -1
				filterName = true
			case keywords[word]:
				start = -1
				filterName = false
			default:
				start = b.Len()
				filterName = false
			}
			afterPipe = false
			b.WriteString(word)
			i = j

		case c >= '0' && c <= '9':
			j := i
			for j < len(expr) && (expr[j] >= '0' && expr[j] <= '9' || expr[j] == '.' && j+1 < len(expr) && expr[j+1] >= '0' && expr[j+1] <= '9') {
				j++
			}
			b.WriteString(expr[i:j])
			i = j
			start = -1
			filterName = false

		case c == '.':
			j := identEnd(expr, i+1)
			if start >= 0 && !calledAt(expr, j) {
				wrapParent(&b, start)
			}
			b.WriteString(expr[i:j])
			i = j

		case c == '[':
			if start >= 0 {
				wrapParent(&b, start)
			}
			stack = append(stack, chainOrHere(start, filterName, &b))
			b.WriteByte(c)
			i++
			start = -1
			filterName = false

		case c == '(' || c == '{':
			stack = append(stack, chainOrHere(start, filterName, &b))
			b.WriteByte(c)
			i++
			start = -1
			filterName = false

		case c == ')' || c == ']' || c == '}':
			b.WriteByte(c)
			i++
			start = -1
			if n := len(stack); n > 0 {
				start = stack[n-1]
				stack = stack[:n-1]
			}

		case c == '|':
			b.WriteByte(c)
			i++
			afterPipe = true
			start = -1
			filterName = false

		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			b.WriteByte(c)
			i++
			start = -1

		default:
			b.WriteByte(c)
			i++
			start = -1
			afterPipe = false
			filterName = false
		}
	}
	return b.String()
}

// chainOrHere is the chain a bracket group continues once closed: the
// enclosing chain for a call or subscript, otherwise the group itself.
// Arguments to a filter close back onto nothing.
func chainOrHere(start int, filterName bool, b *strings.Builder) int {
	switch {
	case filterName:
		return -1
	case start >= 0:
		return start
	default:
		return b.Len()
	}
}

func wrapParent(b *strings.Builder, start int) {
	s := b.String()
	b.Reset()
	b.WriteString(s[:start])
	b.WriteByte('(')
	b.WriteString(s[start:])
	b.WriteString("|" + parentFilter + ")")
}

// calledAt reports whether a call's opening parenthesis follows position i.
func calledAt(s string, i int) bool {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i < len(s) && s[i] == '('
}

func isIdentStart(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r == '_' || unicode.IsLetter(r)
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func identEnd(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return i
}

// parentValue stands in for an undefined or null parent. Neither attribute
// nor index lookups on an empty sequence fail in the engine.
func parentValue(_ *exec.Evaluator, in *exec.Value, _ *exec.VarArgs) *exec.Value {
	if in == nil || in.IsNil() {
		return exec.AsValue([]any{})
	}
	return in
}
