package render

import (
	"strings"
	"testing"
)

func TestPrepare_Closers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "variable", in: `\VAR{name}`, want: `\VAR{name` + variableEnd},
		{name: "block", in: `\BLOCK{endif}`, want: `\BLOCK{endif` + blockEnd},
		{name: "comment", in: `\#{ note }`, want: `\#{ note ` + commentEnd},
		{name: "text braces kept", in: `\textbf{\VAR{name}}`, want: `\textbf{\VAR{name` + variableEnd + `}`},
		{name: "brace in string", in: `\VAR{"}"}`, want: `\VAR{"}"` + variableEnd},
		{name: "escaped quote", in: `\VAR{"a\"}"}`, want: `\VAR{"a\"}"` + variableEnd},
		{name: "dict literal", in: `\BLOCK{set d = {"k": 1}}`, want: `\BLOCK{set d = {"k": 1}` + blockEnd},
		{name: "comment ends at first brace", in: `\#{ a {b} }`, want: `\#{ a {b` + commentEnd + "} }"},
		{name: "raw section untouched", in: "\\BLOCK{raw}\n\\VAR{x.y}\n\\BLOCK{endraw}", want: `\BLOCK{raw` + blockEnd + "\\VAR{x.y}\n\\BLOCK{endraw" + blockEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepare(tt.in)
			if err != nil {
				t.Fatalf("prepare() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("prepare() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepare_WholeLineDirectives(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "indent and newline dropped", in: "a\n  \\BLOCK{endif}\nb", want: "a\n\\BLOCK{endif" + blockEnd + "b"},
		{name: "crlf", in: "a\r\n\t\\BLOCK{endif}\r\nb", want: "a\r\n\\BLOCK{endif" + blockEnd + "b"},
		{name: "comment line", in: "  \\#{ x }\nb", want: "\\#{ x " + commentEnd + "b"},
		{name: "variable line kept", in: "  \\VAR{x}\nb", want: "  \\VAR{x" + variableEnd + "\nb"},
		{name: "text before block", in: "a \\BLOCK{endif}\nb", want: "a \\BLOCK{endif" + blockEnd + "b"},
		{name: "plus keeps indent", in: "  \\BLOCK{+endif}\nb", want: "  \\BLOCK{+endif" + blockEnd + "b"},
		{name: "plus keeps newline", in: "\\BLOCK{endif+}\nb", want: "\\BLOCK{endif+" + blockEnd + "\nb"},
		{name: "only first newline", in: "\\BLOCK{endif}\n\nb", want: "\\BLOCK{endif" + blockEnd + "\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := prepare(tt.in)
			if err != nil {
				t.Fatalf("prepare() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("prepare() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrepare_Unterminated(t *testing.T) {
	tests := map[string]string{
		"variable":    "x\n\n\\VAR{name",
		"block":       "x\n\n\\BLOCK{for a in b",
		"open string": "x\n\n\\VAR{'abc}",
		"raw":         "x\n\n\\BLOCK{raw}never ends",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := prepare(in)
			if err == nil {
				t.Fatal("prepare() should fail")
			}
			if !strings.Contains(err.Error(), "line 3") {
				t.Errorf("error %q does not name line 3", err)
			}
		})
	}
}

func TestLenientExpr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "name", want: "name"},
		{in: "basics.email", want: "(basics|_parent).email"},
		{in: "a.b.c", want: "((a|_parent).b|_parent).c"},
		{in: "xs[0].name", want: "((xs|_parent)[0]|_parent).name"},
		{in: "a[b.c]", want: "(a|_parent)[(b|_parent).c]"},
		{in: "name.upper()", want: "name.upper()"},
		{in: "a.b.upper()", want: "(a|_parent).b.upper()"},
		{in: `skills|join(", ")|escape_latex`, want: `skills|join(", ")|escape_latex`},
		{in: "x|default(y.z)", want: "x|default((y|_parent).z)"},
		{in: `"a.b"`, want: `"a.b"`},
		{in: "1.5 + n", want: "1.5 + n"},
		{in: "not job.highlights", want: "not (job|_parent).highlights"},
		{in: "for item in job.highlights", want: "for item in (job|_parent).highlights"},
		{in: "x in [1, 2]", want: "x in [1, 2]"},
		{in: "{'k': v.w}", want: "{'k': (v|_parent).w}"},
		{in: "- if a.b -", want: "- if (a|_parent).b -"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := lenientExpr(tt.in); got != tt.want {
				t.Errorf("lenientExpr(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLenientBody_SetTarget(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "set total = job.hours", want: "set total = (job|_parent).hours"},
		{in: "set ns.count = a.b", want: "set ns.count = (a|_parent).b"},
		{in: "set ok = a.b == c.d", want: "set ok = (a|_parent).b == (c|_parent).d"},
		{in: "settings.x", want: "(settings|_parent).x"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := lenientBody(tt.in, true); got != tt.want {
				t.Errorf("lenientBody(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
