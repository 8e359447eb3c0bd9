package encode

import (
	"strings"

	"github.com/toon-format/toon-go/token"
)

// FoldMode controls key folding, the encode-time inverse of path
// expansion.
type FoldMode int

const (
	FoldOff FoldMode = iota
	FoldSafe
)

type EncodeOption func(*EncState)

// EncodeIndent sets the indent to n spaces per nesting level.
func EncodeIndent(n int) EncodeOption {
	if n < 0 {
		n = 0
	}
	return func(es *EncState) { es.indent = strings.Repeat(" ", n) }
}

// EncodeIndentString sets the indent unit to an arbitrary whitespace
// string.
func EncodeIndentString(s string) EncodeOption {
	return func(es *EncState) { es.indent = s }
}

// EncodeDelimiter sets the separator used inside bracket headers and
// array rows.
func EncodeDelimiter(d token.Delimiter) EncodeOption {
	return func(es *EncState) { es.delim = d }
}

// KeyFolding collapses chains of single-key objects into dotted keys.
func KeyFolding(m FoldMode) EncodeOption {
	return func(es *EncState) { es.fold = m }
}

// FlattenDepth bounds the number of segments a folded key may join;
// 0 means unbounded.
func FlattenDepth(n int) EncodeOption {
	return func(es *EncState) { es.flattenDepth = n }
}

// EncodeStrict rejects hand-built objects with duplicate keys.
func EncodeStrict(v bool) EncodeOption {
	return func(es *EncState) { es.strict = v }
}

func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
