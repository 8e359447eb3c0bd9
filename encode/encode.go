package encode

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/token"
)

type EncState struct {
	indent       string
	delim        token.Delimiter
	fold         FoldMode
	flattenDepth int
	strict       bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w as a TOON document. Output is byte-exact
// deterministic for a fixed input and options: object fields emit in
// insertion order and no hashing influences form selection.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: "  ", delim: token.Comma}
	for _, opt := range opts {
		opt(es)
	}
	if !es.delim.Valid() {
		return fmt.Errorf("%w: invalid delimiter %q", ErrEncoding, byte(es.delim))
	}
	lines, err := es.valueLines(node)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func (es *EncState) valueLines(node *ir.Node) ([]string, error) {
	switch node.Type {
	case ir.ObjectType:
		return es.objectLines(node)
	case ir.ArrayType:
		return es.arrayLines("", node)
	default:
		v, err := es.primitiveString(node, false)
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}
}

func (es *EncState) objectLines(obj *ir.Node) ([]string, error) {
	var lines []string
	var seen map[string]bool
	if es.strict {
		seen = map[string]bool{}
	}
	for i, f := range obj.Fields {
		key, val := es.foldChain(f.String, obj.Values[i])
		if seen != nil {
			if seen[key] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
			}
			seen[key] = true
		}
		ks := key
		if token.NeedsQuoteKey(key) {
			ks = token.Quote(key)
		}
		ks = es.color(ir.ObjectType, FieldColor, ks)
		switch val.Type {
		case ir.ArrayType:
			al, err := es.arrayLines(ks, val)
			if err != nil {
				return nil, err
			}
			lines = append(lines, al...)
		case ir.ObjectType:
			lines = append(lines, ks+es.sep(":"))
			ol, err := es.objectLines(val)
			if err != nil {
				return nil, err
			}
			lines = append(lines, es.indented(ol)...)
		default:
			v, err := es.primitiveString(val, false)
			if err != nil {
				return nil, err
			}
			lines = append(lines, ks+es.sep(":")+" "+v)
		}
	}
	return lines, nil
}

// foldChain collapses a chain of single-key objects under key into a
// dotted key, stopping at the first non-object value, a branching
// object, a part that is not identifier-safe, or the flatten depth.
func (es *EncState) foldChain(key string, val *ir.Node) (string, *ir.Node) {
	if es.fold != FoldSafe || !token.IsIdent(key) {
		return key, val
	}
	segs := 1
	for val.Type == ir.ObjectType && len(val.Fields) == 1 &&
		token.IsIdent(val.Fields[0].String) &&
		(es.flattenDepth == 0 || segs < es.flattenDepth) {
		key += "." + val.Fields[0].String
		val = val.Values[0]
		segs++
	}
	return key, val
}

// arrayLines emits arr under the (possibly empty) key prefix ks,
// choosing the optimal form: empty, tabular, inline, or list.
func (es *EncState) arrayLines(ks string, arr *ir.Node) ([]string, error) {
	n := len(arr.Values)
	switch {
	case n == 0:
		return []string{ks + es.count(0) + es.sep(":")}, nil
	case es.tabular(arr):
		hdr := ks + es.count(n) + es.fieldsStr(arr.Values[0]) + es.sep(":")
		lines := []string{hdr}
		for _, el := range arr.Values {
			row, err := es.rowString(el)
			if err != nil {
				return nil, err
			}
			lines = append(lines, es.indent+row)
		}
		return lines, nil
	case allPrimitive(arr):
		parts := make([]string, n)
		for i, el := range arr.Values {
			v, err := es.primitiveString(el, true)
			if err != nil {
				return nil, err
			}
			parts[i] = v
		}
		joined := strings.Join(parts, es.sep(es.delim.String()))
		return []string{ks + es.count(n) + es.sep(":") + " " + joined}, nil
	default:
		lines := []string{ks + es.count(n) + es.sep(":")}
		for _, el := range arr.Values {
			il, err := es.itemLines(el)
			if err != nil {
				return nil, err
			}
			lines = append(lines, es.indented(il)...)
		}
		return lines, nil
	}
}

// itemLines emits one list item. Object items carry their first field
// on the marker line, with the remaining fields aligned two columns
// past the marker.
func (es *EncState) itemLines(el *ir.Node) ([]string, error) {
	switch el.Type {
	case ir.ObjectType:
		if len(el.Fields) == 0 {
			return []string{es.color(ir.ArrayType, SepColor, "-")}, nil
		}
		ol, err := es.objectLines(el)
		if err != nil {
			return nil, err
		}
		res := []string{es.marker() + ol[0]}
		for _, ln := range ol[1:] {
			res = append(res, "  "+ln)
		}
		return res, nil
	case ir.ArrayType:
		al, err := es.arrayLines("", el)
		if err != nil {
			return nil, err
		}
		res := []string{es.marker() + al[0]}
		return append(res, al[1:]...), nil
	default:
		v, err := es.primitiveString(el, false)
		if err != nil {
			return nil, err
		}
		return []string{es.marker() + v}, nil
	}
}

// tabular reports whether arr qualifies for the tabular form: uniform
// non-empty objects with an identical ordered key set and primitive
// leaf values throughout.
func (es *EncState) tabular(arr *ir.Node) bool {
	first := arr.Values[0]
	if first.Type != ir.ObjectType || len(first.Fields) == 0 {
		return false
	}
	for _, el := range arr.Values {
		if el.Type != ir.ObjectType || len(el.Fields) != len(first.Fields) {
			return false
		}
		for i, f := range el.Fields {
			if f.String != first.Fields[i].String {
				return false
			}
			if !el.Values[i].Type.IsLeaf() {
				return false
			}
		}
	}
	return true
}

func allPrimitive(arr *ir.Node) bool {
	for _, el := range arr.Values {
		if !el.Type.IsLeaf() {
			return false
		}
	}
	return true
}

// count renders the bracket header: the declared length plus the
// delimiter indicator when it is not the comma.
func (es *EncState) count(n int) string {
	v := "[" + strconv.Itoa(n)
	if es.delim != token.Comma {
		v += es.delim.String()
	}
	v += "]"
	return es.color(ir.ArrayType, CountColor, v)
}

func (es *EncState) fieldsStr(first *ir.Node) string {
	parts := make([]string, len(first.Fields))
	for i, f := range first.Fields {
		name := f.String
		if token.NeedsQuoteKey(name) || strings.ContainsRune(name, es.delim.Rune()) {
			name = token.Quote(name)
		}
		parts[i] = es.color(ir.ObjectType, FieldColor, name)
	}
	open := es.color(ir.ArrayType, SepColor, "{")
	cls := es.color(ir.ArrayType, SepColor, "}")
	return open + strings.Join(parts, es.sep(es.delim.String())) + cls
}

func (es *EncState) rowString(el *ir.Node) (string, error) {
	parts := make([]string, len(el.Values))
	for i, v := range el.Values {
		s, err := es.primitiveString(v, true)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, es.sep(es.delim.String())), nil
}

func (es *EncState) primitiveString(node *ir.Node, inArray bool) (string, error) {
	switch node.Type {
	case ir.NullType:
		return es.color(ir.NullType, ValueColor, "null"), nil
	case ir.BoolType:
		return es.color(ir.BoolType, ValueColor, strconv.FormatBool(node.Bool)), nil
	case ir.NumberType:
		v, err := formatNumber(node.Float64)
		if err != nil {
			return "", err
		}
		return es.color(ir.NumberType, ValueColor, v), nil
	case ir.StringType:
		v := node.String
		needs := token.NeedsQuote(v, es.delim)
		if inArray {
			needs = token.NeedsQuoteInArray(v, es.delim)
		}
		if needs {
			v = token.Quote(v)
		}
		return es.color(ir.StringType, ValueColor, v), nil
	default:
		return "", fmt.Errorf("%w: %s is not a primitive", ErrEncoding, node.Type)
	}
}

// formatNumber renders a finite double. Magnitudes that fit a plain
// decimal use one; the rest use the exponent form of the number
// grammar. Zero covers the -0.0 fold.
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnrepresentable, f)
	}
	if f == 0 {
		return "0", nil
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'e', -1, 64), nil
}

func (es *EncState) marker() string {
	return es.color(ir.ArrayType, SepColor, "-") + " "
}

func (es *EncState) sep(s string) string {
	return es.color(ir.ObjectType, SepColor, s)
}

func (es *EncState) color(t ir.Type, a ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, a, v)
}

func (es *EncState) indented(lines []string) []string {
	res := make([]string, len(lines))
	for i, ln := range lines {
		res[i] = es.indent + ln
	}
	return res
}
