package convert

import (
	"testing"

	"github.com/toon-format/toon-go/encode"
	"github.com/toon-format/toon-go/ir"
)

func TestFromJSONKeyOrder(t *testing.T) {
	node, err := FromJSON([]byte(`{"b": 1, "a": {"z": true, "y": null}}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := encode.String(node)
	if err != nil {
		t.Fatal(err)
	}
	want := "b: 1\na:\n  z: true\n  y: null"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	docs := []string{
		`{"b":1,"a":2}`,
		`[1,"two",null,true]`,
		`{"users":[{"id":1,"name":"ann"},{"id":2,"name":"bo"}]}`,
		`"hello"`,
		`-2.5`,
		`{}`,
		`[]`,
	}
	for _, doc := range docs {
		node, err := FromJSON([]byte(doc))
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", doc, err)
		}
		out, err := ToJSON(node)
		if err != nil {
			t.Fatalf("ToJSON: %v", err)
		}
		back, err := FromJSON(out)
		if err != nil {
			t.Fatalf("FromJSON(%q): %v", out, err)
		}
		if !ir.Equal(node, back) {
			t.Errorf("round trip of %q changed value: %q", doc, out)
		}
	}
}

func TestFromJSONErrors(t *testing.T) {
	for _, doc := range []string{`{"a":}`, `[1,2`, `{"a":1}x`} {
		if _, err := FromJSON([]byte(doc)); err == nil {
			t.Errorf("FromJSON(%q) unexpectedly succeeded", doc)
		}
	}
}

func TestFromYAML(t *testing.T) {
	in := []byte("b: 1\na:\n  - x\n  - 2\nc: true\n")
	node, err := FromYAML(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := encode.String(node)
	if err != nil {
		t.Fatal(err)
	}
	want := "b: 1\na[2]: x,2\nc: true"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	node, err := FromYAML([]byte("users:\n  - id: 1\n    name: ann\n"))
	if err != nil {
		t.Fatal(err)
	}
	out, err := ToYAML(node)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromYAML(out)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(node, back) {
		t.Errorf("yaml round trip changed value: %q", out)
	}
}
