package exprfmt

import (
	"strings"
	"testing"
	"unicode"
)

func TestFormatMinimal(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"var", "x", "x"},
		{"num", "2.50", "2.50"},
		{"parens", "(((a)))", "a"},
		{"prec", "a+b*c", "a + b * c"},
		{"precparen", "(a+b)*c", "(a + b) * c"},
		{"subright", "a-(b-c)", "a - (b - c)"},
		{"subleft", "(a-b)-c", "a - b - c"},
		{"divright", "a/(b*c)", "a / (b * c)"},
		{"divleft", "(a/b)*c", "a / b * c"},
		{"modright", "a%(b%c)", "a % (b % c)"},
		{"powright", "a**(b**c)", "a ** b ** c"},
		{"powleft", "(a**b)**c", "(a ** b) ** c"},
		{"cmp", "(a<b)==(c>=d)", "a < b == (c >= d)"},
		{"cmpsum", "(a+b)<=(c*d)", "a + b <= c * d"},
		{"andor", "(a and b) or c", "a and b or c"},
		{"orand", "a and (b or c)", "a and (b or c)"},
		{"negfirst", "(-a)+b", "-a + b"},
		{"negsum", "-(a+b)", "-(a + b)"},
		{"negpowleft", "(-a)**b", "(-a) ** b"},
		{"negpow", "-(a**b)", "-a ** b"},
		{"powneg", "x**(-y)", "x ** -y"},
		{"negneg", "-(-a)", "--a"},
		{"subneg", "a-(-b)", "a - -b"},
		{"plus", "+(a*b)", "+(a * b)"},
		{"notcmp", "not (a==b)", "not a == b"},
		{"notleft", "(not a)==b", "(not a) == b"},
		{"notnot", "not (not a)", "not not a"},
		{"notor", "not (a or b)", "not (a or b)"},
		{"mulnot", "a*(not b)", "a * not b"},
		{"mulnotadd", "(a*(not b))+c", "a * (not b) + c"},
		{"negnot", "-(not a)+b", "-(not a) + b"},
		{"call0", "f()", "f()"},
		{"call", "round(a+b,2)", "round(a + b, 2)"},
		{"callargs", "f((a or b), (c))", "f(a or b, c)"},
		{"callneg", "-abs(a-b)", "-abs(a - b)"},
		{"callpow", "(f(x))**2", "f(x) ** 2"},
		{"nested", "max(min(a,b),-(c))", "max(min(a, b), -c)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Reformat(c.src)
			if err != nil {
				t.Fatalf("%q failed to reformat: %v", c.src, err)
			}
			if got != c.want {
				t.Errorf("%q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestFormatExplicit(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"a + b * c", "a + (b * c)"},
		{"a * b + c", "(a * b) + c"},
		{"a ** b * c", "(a ** b) * c"},
		{"a ** b ** c", "a ** (b ** c)"},
		{"abs(a + b * c)", "abs(a + (b * c))"},
		{"-a + b", "(-a) + b"},
		{"round(a + b, 2)", "round(a + b, 2)"},
		{"a and b or c", "(a and b) or c"},
		{"a == b and c", "(a == b) and c"},
		{"(a + b) * c", "(a + b) * c"},
		{"(a + b) ** c", "(a + b) ** c"},
		{"a + b + c", "a + b + c"},
		{"a + b - c", "a + b - c"},
		{"a - (b - c)", "a - (b - c)"},
		{"a * (b + c)", "a * (b + c)"},
		{"-abs(a - b)", "-(abs(a - b))"},
		{"-a", "-a"},
		{"--a", "-(-a)"},
		{"not a == b", "not (a == b)"},
		{"x ** -y", "x ** (-y)"},
	}
	for _, c := range cases {
		got, err := Reformat(c.src, Explicit())
		if err != nil {
			t.Errorf("%q failed to reformat: %v", c.src, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: want %q, got %q", c.src, c.want, got)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	cases := []struct {
		src      string
		minimal  string
		explicit string
	}{
		{"a+b", "a+b", "a+b"},
		{"a+b*c", "a+b*c", "a+(b*c)"},
		{"a*b+c/d", "a*b+c/d", "(a*b)+(c/d)"},
		{"a+(b-c)*d", "a+(b-c)*d", "a+((b-c)*d)"},
		{"(a+b)*(c-d)", "(a+b)*(c-d)", "(a+b)*(c-d)"},
		{"var1+var2*count", "var1+var2*count", "var1+(var2*count)"},
		{"x", "x", "x"},
		{"x1*y2+(a-b/c)", "x1*y2+(a-b/c)", "(x1*y2)+(a-(b/c))"},
		{"  a + b * c - d / e ", "a+b*c-d/e", "a+(b*c)-(d/e)"},
		{"a - -b", "a--b", "a-(-b)"},
		{"x ** -y", "x**-y", "x**(-y)"},
		{"a and not b", "a and not b", "a and (not b)"},
		{"a<b or f(a,b)>=2", "a<b or f(a, b)>=2", "(a<b) or (f(a, b)>=2)"},
	}
	for _, c := range cases {
		got, err := Reformat(c.src, Compact())
		if err != nil {
			t.Errorf("%q failed to reformat: %v", c.src, err)
			continue
		}
		if got != c.minimal {
			t.Errorf("%q minimal: want %q, got %q", c.src, c.minimal, got)
		}
		got, err = Reformat(c.src, Explicit(), Compact())
		if err != nil {
			t.Errorf("%q failed to reformat: %v", c.src, err)
			continue
		}
		if got != c.explicit {
			t.Errorf("%q explicit: want %q, got %q", c.src, c.explicit, got)
		}
	}
}

// roundtrips are sources used to check that formatting preserves meaning.
var roundtrips = []string{
	"x",
	"a - b - c",
	"a - (b - c)",
	"a ** b ** c",
	"(a ** b) ** c",
	"a + b * c - d / e % f",
	"(a + b) * (c - d) / (e % f)",
	"-a ** -b ** -c",
	"(-a) ** b",
	"-(-(-a))",
	"+a - -b * +c",
	"not a == b and not (c or d)",
	"(not a) == b or not not c",
	"a * (not b) + c",
	"a * not b + c",
	"-(not a) + b",
	"a < b == c > d != (e <= f) >= g",
	"round(a + b, 2) * abs(-x) ** f()",
	"max(min(a, b), -c, not d, e or f)",
	"1. + .5 * 2.25",
	"((((a + b) * c) ** d) - e) or f and g",
}

func TestRoundTrip(t *testing.T) {
	conventions := map[string][]FormatOption{
		"minimal":          nil,
		"explicit":         {Explicit()},
		"compact":          {Compact()},
		"explicit-compact": {Explicit(), Compact()},
	}
	for name, opts := range conventions {
		t.Run(name, func(t *testing.T) {
			for _, src := range roundtrips {
				a, err := Parse(src)
				if err != nil {
					t.Fatalf("%q failed to parse: %v", src, err)
				}
				s := Format(a, opts...)
				b, err := Parse(s)
				if err != nil {
					t.Errorf("%q -> %q failed to parse: %v", src, s, err)
					continue
				}
				if !Equal(a, b) {
					t.Errorf("mismatched AST:\n\t%q parses %s\n\t%q parses %s", src, tree(a), s, tree(b))
				}
				if r := Format(b, opts...); r != s {
					t.Errorf("formatting is not idempotent: %q -> %q -> %q", src, s, r)
				}
			}
		})
	}
}

// bracketPairs finds the byte offsets of matching grouping brackets in s,
// skipping the brackets of argument lists.
func bracketPairs(s string) [][2]int {
	var (
		pairs [][2]int
		stack []int
	)
	for i, r := range s {
		switch r {
		case '(':
			stack = append(stack, i)
		case ')':
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if open > 0 {
				prev := rune(s[open-1])
				if prev == '_' || unicode.IsLetter(prev) || unicode.IsDigit(prev) {
					continue
				}
			}
			pairs = append(pairs, [2]int{open, i})
		}
	}
	return pairs
}

func TestMinimality(t *testing.T) {
	for _, src := range roundtrips {
		a, err := Parse(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		for _, opts := range [][]FormatOption{nil, {Compact()}} {
			s := Format(a, opts...)
			for _, p := range bracketPairs(s) {
				u := s[:p[0]] + s[p[0]+1:p[1]] + s[p[1]+1:]
				b, err := Parse(u)
				if err == nil && Equal(a, b) {
					t.Errorf("%q formats as %q, but %q means the same", src, s, u)
				}
			}
		}
	}
}

func TestFormatHandBuilt(t *testing.T) {
	x, y := &Variable{Name: "x"}, &Variable{Name: "y"}
	cases := []struct {
		name string
		n    Node
		want string
	}{
		{"call0", &Call{Func: "now"}, "now()"},
		{"negsum", &Unary{Op: "-", X: &Binary{Op: "+", Left: x, Right: y}}, "-(x + y)"},
		{"sumneg", &Binary{Op: "+", Left: &Unary{Op: "-", X: x}, Right: y}, "-x + y"},
		{"notleft", &Binary{Op: "and", Left: &Unary{Op: "not", X: x}, Right: y}, "not x and y"},
		{"notcmp", &Binary{Op: "<", Left: &Unary{Op: "not", X: x}, Right: y}, "(not x) < y"},
		{"negcall", &Unary{Op: "-", X: &Call{Func: "f", Args: []Node{x, &Literal{Text: "1"}}}}, "-f(x, 1)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Format(c.n); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
			if got := c.n.String(); got != c.want {
				t.Errorf("String: want %q, got %q", c.want, got)
			}
		})
	}
}

func TestFormatUnknownOperator(t *testing.T) {
	x := &Variable{Name: "x"}
	cases := []struct {
		name string
		n    Node
	}{
		{"binary", &Binary{Op: "^", Left: x, Right: x}},
		{"unary", &Unary{Op: "*", X: x}},
		{"notbinary", &Binary{Op: "not", Left: x, Right: x}},
		{"nested", &Call{Func: "f", Args: []Node{&Unary{Op: "!", X: x}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("formatting did not panic")
				}
			}()
			Format(c.n)
		})
	}
}

func TestVars(t *testing.T) {
	n, err := Parse("f(x, y) + x * z - abs(y) ** 2")
	if err != nil {
		t.Fatal(err)
	}
	got := Vars(n)
	want := []string{"x", "y", "z"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("want vars %v, got %v", want, got)
	}
	n, _ = Parse("f(1, 2)")
	if v := Vars(n); len(v) != 0 {
		t.Errorf("want no vars, got %v", v)
	}
}

func TestEqual(t *testing.T) {
	x := &Variable{Name: "x"}
	cases := []struct {
		name string
		a, b Node
		want bool
	}{
		{"nil", nil, nil, true},
		{"nilvar", nil, x, false},
		{"varnil", x, nil, false},
		{"same", x, &Variable{Name: "x"}, true},
		{"name", x, &Variable{Name: "y"}, false},
		{"kind", &Literal{Text: "x"}, x, false},
		{"numtext", &Literal{Text: "1.0"}, &Literal{Text: "1"}, false},
		{"unop", &Unary{Op: "-", X: x}, &Unary{Op: "+", X: x}, false},
		{"binop", &Binary{Op: "-", Left: x, Right: x}, &Binary{Op: "+", Left: x, Right: x}, false},
		{"args", &Call{Func: "f", Args: []Node{x}}, &Call{Func: "f"}, false},
		{"func", &Call{Func: "f"}, &Call{Func: "g"}, false},
		{"call", &Call{Func: "f", Args: []Node{x, x}}, &Call{Func: "f", Args: []Node{x, &Variable{Name: "x"}}}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.want {
				t.Errorf("want %t, got %t", c.want, got)
			}
		})
	}
}

func TestReformatOptions(t *testing.T) {
	if _, err := Reformat("f()", NoEmptyCalls(), Explicit()); err == nil {
		t.Errorf("parse option was ignored")
	}
	got, err := Reformat("a+b*c", MaxDepth(10), Explicit(), Compact())
	if err != nil {
		t.Fatalf("failed to reformat: %v", err)
	}
	if got != "a+(b*c)" {
		t.Errorf("format options were ignored: got %q", got)
	}
	if _, err := Reformat("a+@b"); err == nil {
		t.Errorf("lex error was ignored")
	}
}

func BenchmarkFormat(b *testing.B) {
	for _, src := range roundtrips {
		n, err := Parse(src)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(src, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Format(n)
			}
		})
	}
}
