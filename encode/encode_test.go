package encode

import (
	"errors"
	"math"
	"testing"

	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/parse"
	"github.com/toon-format/toon-go/token"

	"github.com/sergi/go-diff/diffmatchpatch"
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

func textDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	return dmp.DiffPrettyText(dmp.DiffMain(want, got, false))
}

type encodeTest struct {
	node *ir.Node
	want string
	opts []EncodeOption
}

func runEncodeTests(t *testing.T, tests []encodeTest) {
	t.Helper()
	for _, et := range tests {
		got, err := String(et.node, et.opts...)
		if err != nil {
			t.Errorf("String: %v", err)
			continue
		}
		if got != et.want {
			t.Errorf("encode mismatch:\n%s", textDiff(et.want, got))
		}
	}
}

func TestEncodePrimitives(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{node: ir.Null(), want: "null"},
		{node: ir.FromBool(true), want: "true"},
		{node: num(22), want: "22"},
		{node: num(1.5), want: "1.5"},
		{node: num(0), want: "0"},
		{node: num(math.Copysign(0, -1)), want: "0"},
		{node: num(1e10), want: "10000000000"},
		{node: num(1e21), want: "1e+21"},
		{node: num(-2.5e-7), want: "-2.5e-07"},
		{node: str("hello"), want: "hello"},
		{node: str(""), want: `""`},
		{node: str("007"), want: `"007"`},
		{node: str("0x1"), want: "0x1"},
		{node: str("true"), want: `"true"`},
		{node: str("a: b"), want: `"a: b"`},
		{node: str("a\nb"), want: `"a\nb"`},
		{node: obj(), want: ""},
	})
}

func TestEncodeObjects(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{node: obj("a", num(1)), want: "a: 1"},
		{node: obj("a", num(1), "b", str("two")), want: "a: 1\nb: two"},
		{node: obj("a", obj("b", num(1))), want: "a:\n  b: 1"},
		{node: obj("a", obj()), want: "a:"},
		{node: obj("a key", num(1)), want: `"a key": 1`},
		{node: obj("007", num(1)), want: `"007": 1`},
		{node: obj("a-b", num(1)), want: `"a-b": 1`},
		{node: obj("a.b", num(1)), want: "a.b: 1"},
		{
			node: obj("a", obj("b", obj("c", num(1)))),
			want: "a:\n  b:\n    c: 1",
		},
		{
			node: obj("a", obj("b", num(1))),
			want: "a:\n    b: 1",
			opts: []EncodeOption{EncodeIndent(4)},
		},
	})
}

func TestEncodeArrays(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{node: obj("xs", arr()), want: "xs[0]:"},
		{node: obj("xs", arr(num(1), num(2), num(3))), want: "xs[3]: 1,2,3"},
		{node: obj("xs", arr(str("a,b"), str("c"))), want: `xs[2]: "a,b",c`},
		{node: obj("xs", arr(str("a:b"))), want: `xs[1]: "a:b"`},
		{node: arr(num(1), num(2)), want: "[2]: 1,2"},
		{node: arr(), want: "[0]:"},
		{
			node: obj("tags", arr(str("a"), str("b"), str("c,d"))),
			want: "tags[3|]: a|b|c,d",
			opts: []EncodeOption{EncodeDelimiter(token.Pipe)},
		},
		{
			node: obj("tags", arr(str("a|b"), str("c"))),
			want: `tags[2|]: "a|b"|c`,
			opts: []EncodeOption{EncodeDelimiter(token.Pipe)},
		},
		{
			node: obj("tags", arr(str("a"), str("b"))),
			want: "tags[2\t]: a\tb",
			opts: []EncodeOption{EncodeDelimiter(token.Tab)},
		},
	})
}

func TestEncodeTabular(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{
			node: obj("users", arr(
				obj("id", num(1), "name", str("Alice"), "role", str("admin")),
				obj("id", num(2), "name", str("Bob"), "role", str("user")),
			)),
			want: "users[2]{id,name,role}:\n  1,Alice,admin\n  2,Bob,user",
		},
		{
			// key order differs: falls back to list format
			node: obj("users", arr(
				obj("id", num(1), "name", str("a")),
				obj("name", str("b"), "id", num(2)),
			)),
			want: "users[2]:\n  - id: 1\n    name: a\n  - name: b\n    id: 2",
		},
		{
			// nested value blocks tabular form
			node: obj("users", arr(
				obj("id", num(1), "tags", arr(str("x"))),
				obj("id", num(2), "tags", arr(str("y"))),
			)),
			want: "users[2]:\n  - id: 1\n    tags[1]: x\n  - id: 2\n    tags[1]: y",
		},
		{
			node: obj("rows", arr(
				obj("a key", num(1)),
				obj("a key", num(2)),
			)),
			want: "rows[2]{\"a key\"}:\n  1\n  2",
		},
	})
}

func TestEncodeListFormat(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{
			node: obj("items", arr(num(1), obj("k", str("v")), arr(num(2), num(3)))),
			want: "items[3]:\n  - 1\n  - k: v\n  - [2]: 2,3",
		},
		{
			node: obj("items", arr(num(1), obj())),
			want: "items[2]:\n  - 1\n  -",
		},
		{
			node: obj("items", arr(obj("k", obj("x", num(1)), "m", num(2)))),
			want: "items[1]:\n  - k:\n      x: 1\n    m: 2",
		},
		{
			node: obj("items", arr(obj("k", obj(), "m", num(2)))),
			want: "items[1]:\n  - k:\n    m: 2",
		},
		{
			node: obj("items", arr(str("k: v"))),
			want: "items[1]:\n  - \"k: v\"",
		},
		{
			node: arr(num(1), arr(num(2), obj("k", str("v")))),
			want: "[2]:\n  - 1\n  - [2]:\n    - 2\n    - k: v",
		},
	})
}

func TestEncodeTabularRowCount(t *testing.T) {
	// wrong header count bug guard: count is in the header text
	got, err := String(obj("rows", arr(obj("a", num(1)))))
	if err != nil {
		t.Fatal(err)
	}
	want := "rows[1]{a}:\n  1"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeKeyFolding(t *testing.T) {
	runEncodeTests(t, []encodeTest{
		{
			node: obj("a", obj("b", obj("c", num(1)))),
			want: "a.b.c: 1",
			opts: []EncodeOption{KeyFolding(FoldSafe)},
		},
		{
			node: obj("a", obj("b", obj("c", num(1)))),
			want: "a.b:\n  c: 1",
			opts: []EncodeOption{KeyFolding(FoldSafe), FlattenDepth(2)},
		},
		{
			// branching stops the chain
			node: obj("a", obj("b", num(1), "c", num(2))),
			want: "a:\n  b: 1\n  c: 2",
			opts: []EncodeOption{KeyFolding(FoldSafe)},
		},
		{
			// a non-identifier part stops the chain
			node: obj("a", obj("x y", obj("c", num(1)))),
			want: "a:\n  \"x y\":\n    c: 1",
			opts: []EncodeOption{KeyFolding(FoldSafe)},
		},
		{
			node: obj("a", obj("b", obj("c", num(1)))),
			want: "a:\n  b:\n    c: 1",
		},
	})
}

func TestEncodeUnrepresentable(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := String(obj("a", num(f)))
		if !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("String(%v) err = %v, want ErrUnrepresentable", f, err)
		}
	}
}

func TestEncodeStrictDuplicateKeys(t *testing.T) {
	dup := &ir.Node{Type: ir.ObjectType}
	dup.Fields = []*ir.Node{ir.FromString("a"), ir.FromString("a")}
	dup.Values = []*ir.Node{num(1), num(2)}
	if _, err := String(dup); err != nil {
		t.Errorf("non-strict: %v", err)
	}
	if _, err := String(dup, EncodeStrict(true)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("strict err = %v, want ErrDuplicateKey", err)
	}
}

func TestEncodeDeterminism(t *testing.T) {
	node := obj(
		"users", arr(
			obj("id", num(1), "name", str("Alice")),
			obj("id", num(2), "name", str("Bob")),
		),
		"tags", arr(str("x"), str("y")),
		"meta", obj("count", num(2)),
	)
	first, err := String(node)
	if err != nil {
		t.Fatal(err)
	}
	for range 16 {
		again, err := String(node)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("non-deterministic output:\n%s", textDiff(first, again))
		}
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	nodes := []*ir.Node{
		obj(),
		obj("a", num(1), "b", str("two"), "c", ir.Null()),
		obj("users", arr(
			obj("id", num(1), "name", str("Alice"), "ok", ir.FromBool(true)),
			obj("id", num(2), "name", str("Bob"), "ok", ir.FromBool(false)),
		)),
		obj("items", arr(num(1), obj("k", str("v")), arr(num(2), num(3)))),
		obj("xs", arr()),
		obj("nested", obj("deep", obj("deeper", arr(str("a,b"), str("c:d"))))),
		arr(num(1), str("two"), obj()),
		str("a: tricky\nstring"),
		num(-2.5e-3),
		obj("e", str(""), "ws", str("  padded  ")),
	}
	for _, node := range nodes {
		text, err := String(node)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		back, err := parse.Parse([]byte(text))
		if err != nil {
			t.Fatalf("decode %q: %v", text, err)
		}
		if !ir.Equal(node, back) {
			t.Errorf("round trip changed value:\n%s", text)
		}
	}
}
