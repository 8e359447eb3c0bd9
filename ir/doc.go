// Package ir defines the value tree manipulated by the TOON codec.
//
// A tree is built from Nodes, a recursive sum over null, bool, number
// (finite float64, with -0.0 folded to 0.0), string, array, and
// object. Objects preserve insertion order on both encode and decode.
package ir
