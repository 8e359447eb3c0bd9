package ir

import (
	"fmt"
	"maps"
	"slices"
)

// Node is the value tree both the encoder and the decoder operate on.
// Objects keep their fields in insertion order: Fields[i] is a
// StringType node holding the i-th key and Values[i] its value.
// Arrays use Values only.
type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	String  string
	Bool    bool
	Float64 float64

	// Key metadata, meaningful on field nodes only. Quoted records
	// whether the author quoted the key in the source document and
	// Line its 1-based source line; both feed path expansion.
	Quoted bool
	Line   int
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Type = y.Type
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Float64 = y.Float64
	dst.Quoted = y.Quoted
	dst.Line = y.Line
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, yf := range y.Fields {
			dst.Fields[i] = yf.Clone()
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, yv := range y.Values {
			dst.Values[i] = yv.Clone()
		}
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromFloat(f float64) *Node {
	if f == 0 {
		f = 0
	}
	return &Node{Type: NumberType, Float64: f}
}

func FromBool(v bool) *Node {
	return &Node{Type: BoolType, Bool: v}
}

func Null() *Node {
	return &Node{Type: NullType}
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromMap(yMap map[string]*Node) *Node {
	res := &Node{Type: ObjectType}
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		res.Fields[i] = FromString(key)
		res.Values[i] = yMap[key]
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{Type: ArrayType}
	res.Values = make([]*Node, len(ySlice))
	copy(res.Values, ySlice)
	return res
}

func Get(y *Node, field string) *Node {
	n := len(y.Fields)
	for i := range n {
		if y.Fields[i].String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Set assigns field to val, replacing an existing value in place or
// appending a new field in insertion order.
func Set(y *Node, field *Node, val *Node) {
	for i := range y.Fields {
		if y.Fields[i].String == field.String {
			y.Fields[i] = field
			y.Values[i] = val
			return
		}
	}
	y.Fields = append(y.Fields, field)
	y.Values = append(y.Values, val)
}

// Interface converts the tree to plain Go values: nil, bool, float64,
// string, []any, and map[string]any.
func (y *Node) Interface() any {
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case NumberType:
		return y.Float64
	case StringType:
		return y.String
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.Interface()
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f.String] = y.Values[i].Interface()
		}
		return res
	default:
		panic("type")
	}
}

// FromGo builds a Node from plain Go values. Maps produce objects with
// sorted keys since Go map iteration carries no order.
func FromGo(v any) (*Node, error) {
	switch vv := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return vv, nil
	case bool:
		return FromBool(vv), nil
	case string:
		return FromString(vv), nil
	case float64:
		return FromFloat(vv), nil
	case float32:
		return FromFloat(float64(vv)), nil
	case int:
		return FromFloat(float64(vv)), nil
	case int8:
		return FromFloat(float64(vv)), nil
	case int16:
		return FromFloat(float64(vv)), nil
	case int32:
		return FromFloat(float64(vv)), nil
	case int64:
		return FromFloat(float64(vv)), nil
	case uint:
		return FromFloat(float64(vv)), nil
	case uint8:
		return FromFloat(float64(vv)), nil
	case uint16:
		return FromFloat(float64(vv)), nil
	case uint32:
		return FromFloat(float64(vv)), nil
	case uint64:
		return FromFloat(float64(vv)), nil
	case []any:
		res := make([]*Node, len(vv))
		for i, e := range vv {
			n, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			res[i] = n
		}
		return FromSlice(res), nil
	case map[string]any:
		d := make(map[string]*Node, len(vv))
		for k, e := range vv {
			n, err := FromGo(e)
			if err != nil {
				return nil, err
			}
			d[k] = n
		}
		return FromMap(d), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrConvert, v)
	}
}
