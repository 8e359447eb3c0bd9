// Package parse parses TOON text into value trees.
//
// # Usage
//
//	node, err := parse.Parse([]byte("users[2]{id,name}:\n  1,ann\n  2,bo"))
//	if err != nil {
//	    return err
//	}
//
//	// Parse with options
//	node, err := parse.Parse(data, parse.ParseStrict(true),
//	    parse.ExpandPaths(parse.PathsSafe))
//
// The parser is a recursive descent over the document's lines:
// nesting resolves by indentation, array forms by the shape of the
// bracket header, and every declared count is validated against the
// observed content.
//
// # Related Packages
//
//   - github.com/toon-format/toon-go/ir - value tree
//   - github.com/toon-format/toon-go/encode - encode a tree to text
//   - github.com/toon-format/toon-go/token - lexical rules
package parse
