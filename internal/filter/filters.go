package filter

import (
	"reflect"
	"strings"

	"github.com/gorewood/vitae/internal/data"
)

// Names under which the built-in filters are registered.
const (
	NameNormalizeURL = "normalize_url"
	NameURLDisplay   = "url_display"
	NameEscapeLaTeX  = "escape_latex"
	NameLaTeXBraces  = "latex_braces"
)

// urlSchemes are checked in order by URLDisplay.
var urlSchemes = []string{"https://", "http://"}

// latexEscapes is applied row by row. The backslash row must come first:
// later rows introduce backslashes of their own.
var latexEscapes = []struct {
	char    string
	escaped string
}{
	{`\`, `\textbackslash{}`},
	{`&`, `\&`},
	{`%`, `\%`},
	{`$`, `\$`},
	{`#`, `\#`},
	{`^`, `\textasciicircum{}`},
	{`_`, `\_`},
	{`{`, `\{`},
	{`}`, `\}`},
	{`~`, `\textasciitilde{}`},
}

// falsy reports whether a template condition would treat v as false: empty
// per IsEmpty, numeric zero, or false.
func falsy(v data.Value) bool {
	if v.IsEmpty() {
		return true
	}
	if v.Kind() != data.KindScalar {
		return false
	}
	rv := reflect.ValueOf(v.Interface())
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	}
	return false
}

// NormalizeURL trims v and prefixes https:// unless it already carries an
// http:// or https:// scheme. Falsy input, 0 and false included, yields Absent.
func NormalizeURL(v data.Value) data.Value {
	if falsy(v) {
		return data.Null()
	}
	url := strings.TrimSpace(v.Text())
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return data.String(url)
	}
	return data.String("https://" + url)
}

// URLDisplay trims v and drops a leading https:// or http://.
// Falsy input yields Absent.
func URLDisplay(v data.Value) data.Value {
	if falsy(v) {
		return data.Null()
	}
	url := strings.TrimSpace(v.Text())
	for _, scheme := range urlSchemes {
		if rest, ok := strings.CutPrefix(url, scheme); ok {
			return data.String(rest)
		}
	}
	return data.String(url)
}

// EscapeLaTeX replaces LaTeX special characters with their escape sequences.
// It is a single pass: escaping already-escaped text escapes it again.
// Falsy input yields empty text.
func EscapeLaTeX(v data.Value) data.Value {
	if falsy(v) {
		return data.String("")
	}
	text := v.Text()
	for _, e := range latexEscapes {
		text = strings.ReplaceAll(text, e.char, e.escaped)
	}
	return data.String(text)
}

// LaTeXBraces wraps v in a literal brace pair without escaping. Only Absent
// is dropped; {0} and {False} are kept.
func LaTeXBraces(v data.Value) data.Value {
	if v.IsAbsent() {
		return data.String("")
	}
	return data.String("{" + v.Text() + "}")
}
