package ir

import (
	"cmp"
	"slices"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Objects compare by sorted key list, then per-key values, so two
// objects holding the same fields in different insertion orders
// compare equal.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	rankA := rank(a.Type)
	rankB := rank(b.Type)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}

	switch a.Type {
	case NumberType:
		return cmp.Compare(a.Float64, b.Float64)
	case StringType:
		return strings.Compare(a.String, b.String)
	case BoolType:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	case ArrayType:
		return compareArrays(a, b)
	case ObjectType:
		return compareObjects(a, b)
	case NullType:
		return 0
	}
	return 0
}

// Equal reports semantic equality: object key order is ignored, key
// metadata (Quoted, Line) is ignored.
func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}

// rank returns the sorting rank of a type.
// Order: Null < Bool < Number < String < Array < Object
func rank(t Type) int {
	switch t {
	case NullType:
		return 0
	case BoolType:
		return 1
	case NumberType:
		return 2
	case StringType:
		return 3
	case ArrayType:
		return 4
	case ObjectType:
		return 5
	}
	return 6
}

func compareArrays(a, b *Node) int {
	if c := cmp.Compare(len(a.Values), len(b.Values)); c != 0 {
		return c
	}
	for i := range a.Values {
		if c := Compare(a.Values[i], b.Values[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareObjects(a, b *Node) int {
	if c := cmp.Compare(len(a.Fields), len(b.Fields)); c != 0 {
		return c
	}
	aKeys := sortedKeys(a)
	bKeys := sortedKeys(b)
	for i := range aKeys {
		if c := strings.Compare(aKeys[i], bKeys[i]); c != 0 {
			return c
		}
	}
	for _, k := range aKeys {
		if c := Compare(Get(a, k), Get(b, k)); c != 0 {
			return c
		}
	}
	return 0
}

func sortedKeys(y *Node) []string {
	keys := make([]string, len(y.Fields))
	for i, f := range y.Fields {
		keys[i] = f.String
	}
	slices.Sort(keys)
	return keys
}
