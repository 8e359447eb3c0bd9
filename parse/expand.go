package parse

import (
	"strings"

	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/token"
)

// expandNode rewrites dotted unquoted keys into nested objects. Only
// keys whose dot-separated parts are all identifier-safe expand; keys
// the author quoted never do.
func expandNode(node *ir.Node, strict bool) (*ir.Node, error) {
	switch node.Type {
	case ir.ObjectType:
		return expandObject(node, strict)
	case ir.ArrayType:
		res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, len(node.Values))}
		for i, v := range node.Values {
			vv, err := expandNode(v, strict)
			if err != nil {
				return nil, err
			}
			res.Values[i] = vv
		}
		return res, nil
	default:
		return node, nil
	}
}

func expandObject(obj *ir.Node, strict bool) (*ir.Node, error) {
	res := &ir.Node{Type: ir.ObjectType}
	for i, f := range obj.Fields {
		val, err := expandNode(obj.Values[i], strict)
		if err != nil {
			return nil, err
		}
		parts, ok := splitPath(f)
		if !ok {
			if err := mergeLeaf(res, f, val, strict); err != nil {
				return nil, err
			}
			continue
		}
		cur := res
		for _, part := range parts[:len(parts)-1] {
			existing := ir.Get(cur, part)
			if existing != nil && existing.Type == ir.ObjectType {
				cur = existing
				continue
			}
			if existing != nil && strict {
				return nil, errAtf(f.Line, "%w at %q", ErrPathConflict, part)
			}
			child := &ir.Node{Type: ir.ObjectType}
			ir.Set(cur, &ir.Node{Type: ir.StringType, String: part, Line: f.Line}, child)
			cur = child
		}
		last := &ir.Node{Type: ir.StringType, String: parts[len(parts)-1], Line: f.Line}
		if err := mergeLeaf(cur, last, val, strict); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// mergeLeaf assigns field to val in obj. Two plain objects
// shallow-merge with new keys winning; any other collision is a
// conflict in strict mode and last-writer-wins otherwise.
func mergeLeaf(obj *ir.Node, field, val *ir.Node, strict bool) error {
	existing := ir.Get(obj, field.String)
	if existing == nil {
		ir.Set(obj, field, val)
		return nil
	}
	if existing.Type == ir.ObjectType && val.Type == ir.ObjectType {
		for i, nf := range val.Fields {
			ir.Set(existing, nf, val.Values[i])
		}
		return nil
	}
	if strict {
		return errAtf(field.Line, "%w at %q", ErrPathConflict, field.String)
	}
	ir.Set(obj, field, val)
	return nil
}

func splitPath(f *ir.Node) ([]string, bool) {
	if f.Quoted || !strings.ContainsRune(f.String, '.') {
		return nil, false
	}
	parts := strings.Split(f.String, ".")
	for _, part := range parts {
		if !token.IsIdent(part) {
			return nil, false
		}
	}
	return parts, true
}
