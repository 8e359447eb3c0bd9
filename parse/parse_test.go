package parse

import (
	"errors"
	"testing"

	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/token"
)

func obj(kvs ...any) *ir.Node {
	res := &ir.Node{Type: ir.ObjectType}
	for i := 0; i < len(kvs); i += 2 {
		ir.Set(res, ir.FromString(kvs[i].(string)), kvs[i+1].(*ir.Node))
	}
	return res
}

func arr(vals ...*ir.Node) *ir.Node {
	res := &ir.Node{Type: ir.ArrayType}
	res.Values = append(res.Values, vals...)
	return res
}

func str(v string) *ir.Node  { return ir.FromString(v) }
func num(v float64) *ir.Node { return ir.FromFloat(v) }

type parseTest struct {
	in   string
	want *ir.Node
	e    error
	opts []ParseOption
}

func runParseTests(t *testing.T, tests []parseTest) {
	t.Helper()
	for _, pt := range tests {
		got, err := Parse([]byte(pt.in), pt.opts...)
		if pt.e != nil {
			if !errors.Is(err, pt.e) {
				t.Errorf("Parse(%q) err = %v, want %v", pt.in, err, pt.e)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", pt.in, err)
			continue
		}
		if !ir.Equal(got, pt.want) {
			t.Errorf("Parse(%q) = %+v, want %+v", pt.in, got, pt.want)
		}
	}
}

func TestParseRootPrimitives(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: "", want: obj()},
		{in: "   \n\n  ", want: obj()},
		{in: "null", want: ir.Null()},
		{in: "true", want: ir.FromBool(true)},
		{in: "false", want: ir.FromBool(false)},
		{in: "22", want: num(22)},
		{in: "1e14", want: num(1e14)},
		{in: "-2.5E-3", want: num(-2.5e-3)},
		{in: "-0", want: num(0)},
		{in: "007", want: str("007")},
		{in: "0x1", want: str("0x1")},
		{in: "hello", want: str("hello")},
		{in: `"hello"`, want: str("hello")},
		{in: `"a: b"`, want: str("a: b")},
		{in: `"line\nbreak"`, want: str("line\nbreak")},
		{in: "hello world", want: str("hello world")},
	})
}

func TestParseObjects(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: "a: 1", want: obj("a", num(1))},
		{in: "a: 1\nb: two", want: obj("a", num(1), "b", str("two"))},
		{in: "a: null\nb: true", want: obj("a", ir.Null(), "b", ir.FromBool(true))},
		{in: `"a key": 1`, want: obj("a key", num(1))},
		{in: `"": empty`, want: obj("", str("empty"))},
		{in: "a:\n  b: 1", want: obj("a", obj("b", num(1)))},
		{in: "a:\n  b:\n    c: 1\nd: 2",
			want: obj("a", obj("b", obj("c", num(1))), "d", num(2))},
		{in: "a:\nb: 1", want: obj("a", obj(), "b", num(1))},
		{in: "a:", want: obj("a", obj())},
		{in: "a: 1\na: 2", want: obj("a", num(2))},
		{in: "a.b: 1", want: obj("a.b", num(1))},
		{in: "a: 1\na: 2", e: ErrDuplicateKey, opts: []ParseOption{ParseStrict(true)}},
		{in: "a: 1\njunk", e: ErrMissingColon},
	})
}

func TestParseInlineArrays(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: "xs[3]: 1,2,3", want: obj("xs", arr(num(1), num(2), num(3)))},
		{in: "xs[1]: one", want: obj("xs", arr(str("one")))},
		{in: "xs[0]:", want: obj("xs", arr())},
		{in: "xs[2]: a, b", want: obj("xs", arr(str("a"), str("b")))},
		{in: `xs[2]: "a,b",c`, want: obj("xs", arr(str("a,b"), str("c")))},
		{in: "xs[3|]: a|b|c,d", want: obj("xs", arr(str("a"), str("b"), str("c,d")))},
		{in: "xs[2\t]: a\tb", want: obj("xs", arr(str("a"), str("b")))},
		{in: "xs[2]: true,null", want: obj("xs", arr(ir.FromBool(true), ir.Null()))},
		{in: "xs[3]: 1,2", e: ErrCountMismatch},
		{in: "xs[1]: 1,2", e: ErrCountMismatch},
		{in: "xs[]: 1", e: ErrInvalidHeader},
		{in: "xs[2: 1,2", e: ErrInvalidHeader},
		{in: "xs[2]x: 1,2", e: ErrInvalidHeader},
	})
}

func TestParseTabularArrays(t *testing.T) {
	runParseTests(t, []parseTest{
		{
			in: "users[2]{id,name,role}:\n  1,Alice,admin\n  2,Bob,user",
			want: obj("users", arr(
				obj("id", num(1), "name", str("Alice"), "role", str("admin")),
				obj("id", num(2), "name", str("Bob"), "role", str("user")),
			)),
		},
		{
			in: "rows[1|]{a|b}:\n  1|x,y",
			want: obj("rows", arr(obj("a", num(1), "b", str("x,y")))),
		},
		{
			in:   "rows[1]{\"a key\",b}:\n  1,2",
			want: obj("rows", arr(obj("a key", num(1), "b", num(2)))),
		},
		{in: "rows[2]{a,b}:\n  1,2", e: ErrCountMismatch},
		{in: "rows[1]{a,b}:\n  1,2\n  3,4", e: ErrExtraRows},
		{in: "rows[1]{a,b}:\n  1,2,3", e: ErrCountMismatch},
		{in: "rows[1]{a,b}: 1,2", e: ErrInvalidHeader},
		{in: "rows[1]{a,b:\n  1,2", e: ErrInvalidHeader},
		{
			in: "rows[2]{a,b}:\n  1,2\n\n  3,4",
			want: obj("rows", arr(
				obj("a", num(1), "b", num(2)),
				obj("a", num(3), "b", num(4)),
			)),
		},
		{
			in:   "rows[2]{a,b}:\n  1,2\n\n  3,4",
			e:    ErrBlankLine,
			opts: []ParseOption{ParseStrict(true)},
		},
	})
}

func TestParseListArrays(t *testing.T) {
	runParseTests(t, []parseTest{
		{
			in:   "items[3]:\n  - 1\n  - k: v\n  - [2]: 2,3",
			want: obj("items", arr(num(1), obj("k", str("v")), arr(num(2), num(3)))),
		},
		{
			in:   "items[2]:\n  - 1\n  -",
			want: obj("items", arr(num(1), obj())),
		},
		{
			in: "items[2]:\n  - id: 1\n    name: ann\n  - id: 2\n    name: bo",
			want: obj("items", arr(
				obj("id", num(1), "name", str("ann")),
				obj("id", num(2), "name", str("bo")),
			)),
		},
		{
			in:   "items[1]:\n  - k:\n      x: 1\n    m: 2",
			want: obj("items", arr(obj("k", obj("x", num(1)), "m", num(2)))),
		},
		{
			in:   "items[1]:\n  - k:\n    m: 2",
			want: obj("items", arr(obj("k", obj(), "m", num(2)))),
		},
		{
			in:   "items[1]:\n  - xs[2]:\n      - 1\n      - 2",
			want: obj("items", arr(obj("xs", arr(num(1), num(2))))),
		},
		{
			in:   "items[2]:\n  - [1]: 1\n  - [0]:",
			want: obj("items", arr(arr(num(1)), arr())),
		},
		{
			in:   `items[1]:` + "\n" + `  - "k: v"`,
			want: obj("items", arr(str("k: v"))),
		},
		{in: "items[2]:\n  - 1", e: ErrCountMismatch},
		{in: "items[1]:\n  - 1\n  - 2", e: ErrExtraRows},
		{
			in:   "items[2]:\n  - 1\n\n  - 2",
			e:    ErrBlankLine,
			opts: []ParseOption{ParseStrict(true)},
		},
	})
}

func TestParseMultilinePrimitiveArrays(t *testing.T) {
	runParseTests(t, []parseTest{
		{
			in:   "xs[3]:\n  1\n  2\n  3",
			want: obj("xs", arr(num(1), num(2), num(3))),
		},
		{
			in:   "xs[2]:\n  one\n  two",
			want: obj("xs", arr(str("one"), str("two"))),
		},
		{in: "xs[2]:\n  1", e: ErrCountMismatch},
		{in: "xs[1]:\n  1\n  2", e: ErrExtraRows},
		{in: "xs[2]:", e: ErrCountMismatch},
	})
}

func TestParseRootArrays(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: "[3]: 1,2,3", want: arr(num(1), num(2), num(3))},
		{in: "[0]:", want: arr()},
		{
			in:   "[2]{id,name}:\n  1,ann\n  2,bo",
			want: arr(obj("id", num(1), "name", str("ann")), obj("id", num(2), "name", str("bo"))),
		},
		{
			in:   "[2]:\n  - 1\n  - k: v",
			want: arr(num(1), obj("k", str("v"))),
		},
		{
			in:   "[2]:\n  1\n  2",
			want: arr(num(1), num(2)),
		},
		{in: "[2]: 1", e: ErrCountMismatch},
		{in: "[1]: 1\njunk", e: ErrParse},
	})
}

func TestParseStrictMode(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: "a: 1\n\tb: 2", e: ErrBadIndent, opts: []ParseOption{ParseStrict(true)}},
		{
			in:   "  a: 1\n a: 2",
			e:    ErrBadIndent,
			opts: []ParseOption{ParseStrict(true), ParseIndent(2)},
		},
		{
			in:   "a:\n   b: 1",
			e:    ErrBadIndent,
			opts: []ParseOption{ParseStrict(true)},
		},
		{
			in:   "a:\n    b: 1",
			want: obj("a", obj("b", num(1))),
			opts: []ParseOption{ParseStrict(true), ParseIndent(4)},
		},
		{in: "one\ntwo", e: ErrMultipleRoots, opts: []ParseOption{ParseStrict(true)}},
		{in: "one\ntwo", e: ErrMissingColon},
	})
}

func TestParseStringEscapes(t *testing.T) {
	runParseTests(t, []parseTest{
		{in: `a: "x\ty"`, want: obj("a", str("x\ty"))},
		{in: `a: "x\qy"`, e: token.ErrBadEscape},
		{in: `a: "unclosed`, e: token.ErrUnterminated},
	})
}

func TestParseErrorLines(t *testing.T) {
	_, err := Parse([]byte("xs[3]: 1,2"))
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Line != 1 {
		t.Errorf("line = %d, want 1", pe.Line)
	}
	if !errors.Is(err, ErrCountMismatch) {
		t.Errorf("err = %v, want ErrCountMismatch", err)
	}

	_, err = Parse([]byte("users[2]{a,b}:\n  1,2\n  3,4,5"))
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.Line != 3 {
		t.Errorf("line = %d, want 3", pe.Line)
	}
}

func TestParseQuotedFlag(t *testing.T) {
	node, err := Parse([]byte("a.b: 1\n\"c.d\": 2"))
	if err != nil {
		t.Fatal(err)
	}
	if node.Fields[0].Quoted {
		t.Errorf("a.b unexpectedly quoted")
	}
	if !node.Fields[1].Quoted {
		t.Errorf("c.d not marked quoted")
	}
	if node.Fields[0].Line != 1 || node.Fields[1].Line != 2 {
		t.Errorf("field lines = %d, %d", node.Fields[0].Line, node.Fields[1].Line)
	}
}
