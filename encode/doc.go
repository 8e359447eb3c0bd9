// Package encode encodes value trees to TOON text.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "age":  ir.FromFloat(30),
//	})
//	err := encode.Encode(node, os.Stdout)
//
//	// Encode with options
//	s, err := encode.String(node, encode.EncodeDelimiter(token.Pipe))
//
// Arrays pick their own textual form: a uniform array of flat objects
// becomes a tabular block, an array of primitives becomes a single
// inline line, and anything mixed or nested falls back to list format.
//
// # Related Packages
//
//   - github.com/toon-format/toon-go/ir - value tree
//   - github.com/toon-format/toon-go/parse - decode text to a tree
package encode
