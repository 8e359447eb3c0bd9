// Package toon implements TOON, Token-Oriented Object Notation: a
// compact, indentation-sensitive serialization of the JSON data model
// whose tabular array form factors a shared field schema out of
// uniform records onto a single header line.
//
// The codec is a pair of pure functions over the ir value tree:
//
//	node, err := toon.Decode([]byte("users[2]{id,name}:\n  1,ann\n  2,bo"))
//	text, err := toon.Encode(node)
//
// Both may be invoked concurrently on distinct inputs; no state is
// shared between calls.
package toon

import (
	"github.com/toon-format/toon-go/encode"
	"github.com/toon-format/toon-go/ir"
	"github.com/toon-format/toon-go/parse"
)

// Encode renders a value tree as a TOON document. It fails on trees
// holding NaN or infinite numbers.
func Encode(node *ir.Node, opts ...encode.EncodeOption) (string, error) {
	return encode.String(node, opts...)
}

// Decode parses a TOON document into a value tree. Malformed input
// yields a *parse.Error carrying a 1-based line number.
func Decode(d []byte, opts ...parse.ParseOption) (*ir.Node, error) {
	return parse.Parse(d, opts...)
}

// DecodeString is Decode on a string.
func DecodeString(v string, opts ...parse.ParseOption) (*ir.Node, error) {
	return parse.Parse([]byte(v), opts...)
}
