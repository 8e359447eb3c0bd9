// Package token holds the lexical discipline shared by the TOON
// encoder and decoder: which strings may appear bare in a given
// context, the escape mapping, delimiter-aware field splitting, key
// scanning, and number lexeme recognition. The quoting predicates and
// the bare-string acceptance of the decoder are two views of the same
// character classification, so they live together here.
package token
