package convert

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/toon-format/toon-go/ir"
)

// FromYAML decodes a YAML document into a value tree. Mappings decode
// as ordered maps so key order survives.
func FromYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	return fromYAMLValue(v)
}

func fromYAMLValue(v any) (*ir.Node, error) {
	switch vv := v.(type) {
	case yaml.MapSlice:
		obj := &ir.Node{Type: ir.ObjectType}
		for _, item := range vv {
			key := fmt.Sprintf("%v", item.Key)
			val, err := fromYAMLValue(item.Value)
			if err != nil {
				return nil, err
			}
			ir.Set(obj, ir.FromString(key), val)
		}
		return obj, nil
	case []any:
		arr := &ir.Node{Type: ir.ArrayType}
		for _, e := range vv {
			el, err := fromYAMLValue(e)
			if err != nil {
				return nil, err
			}
			arr.Values = append(arr.Values, el)
		}
		return arr, nil
	default:
		return ir.FromGo(v)
	}
}

// ToYAML renders a value tree as YAML, fields in insertion order.
func ToYAML(node *ir.Node) ([]byte, error) {
	return yaml.Marshal(toYAMLValue(node))
}

func toYAMLValue(node *ir.Node) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = yaml.MapItem{Key: f.String, Value: toYAMLValue(node.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = toYAMLValue(v)
		}
		return res
	default:
		return node.Interface()
	}
}
