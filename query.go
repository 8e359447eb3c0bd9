package toon

import (
	"github.com/expr-lang/expr"

	"github.com/toon-format/toon-go/ir"
)

// Query evaluates an expression against a decoded document and
// returns the result as a value tree. Object documents expose their
// fields directly as the environment; any other document binds to the
// name "doc".
func Query(node *ir.Node, src string) (*ir.Node, error) {
	var env any
	if node.Type == ir.ObjectType {
		env = node.Interface()
	} else {
		env = map[string]any{"doc": node.Interface()}
	}
	prg, err := expr.Compile(src)
	if err != nil {
		return nil, err
	}
	res, err := expr.Run(prg, env)
	if err != nil {
		return nil, err
	}
	return ir.FromGo(res)
}
