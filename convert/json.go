package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/toon-format/toon-go/ir"
)

// FromJSON decodes a JSON document into a value tree. The token
// stream is walked directly so object key order survives.
func FromJSON(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	node, err := fromJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after JSON value", ErrConvert)
	}
	return node, nil
}

func fromJSONValue(dec *json.Decoder) (*ir.Node, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return fromJSONToken(dec, t)
}

func fromJSONToken(dec *json.Decoder, t json.Token) (*ir.Node, error) {
	switch tt := t.(type) {
	case json.Delim:
		switch tt {
		case '{':
			obj := &ir.Node{Type: ir.ObjectType}
			for {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := kt.(json.Delim); ok && d == '}' {
					return obj, nil
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("%w: object key %v", ErrConvert, kt)
				}
				val, err := fromJSONValue(dec)
				if err != nil {
					return nil, err
				}
				ir.Set(obj, ir.FromString(key), val)
			}
		case '[':
			arr := &ir.Node{Type: ir.ArrayType}
			for {
				et, err := dec.Token()
				if err != nil {
					return nil, err
				}
				if d, ok := et.(json.Delim); ok && d == ']' {
					return arr, nil
				}
				el, err := fromJSONToken(dec, et)
				if err != nil {
					return nil, err
				}
				arr.Values = append(arr.Values, el)
			}
		default:
			return nil, fmt.Errorf("%w: unexpected delimiter %v", ErrConvert, tt)
		}
	case string:
		return ir.FromString(tt), nil
	case json.Number:
		f, err := tt.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConvert, err)
		}
		return ir.FromFloat(f), nil
	case bool:
		return ir.FromBool(tt), nil
	case nil:
		return ir.Null(), nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %v", ErrConvert, t)
	}
}

// ToJSON renders a value tree as compact JSON, fields in insertion
// order.
func ToJSON(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, node *ir.Node) error {
	switch node.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case ir.NumberType:
		f := node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v has no JSON form", ErrConvert, f)
		}
		buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case ir.StringType:
		d, err := json.Marshal(node.String)
		if err != nil {
			return err
		}
		buf.Write(d)
	case ir.ArrayType:
		buf.WriteByte('[')
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ir.ObjectType:
		buf.WriteByte('{')
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			d, err := json.Marshal(f.String)
			if err != nil {
				return err
			}
			buf.Write(d)
			buf.WriteByte(':')
			if err := writeJSON(buf, node.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: type %s", ErrConvert, node.Type)
	}
	return nil
}
