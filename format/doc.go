// Package format enumerates the document formats the toon tool reads
// and writes: TOON itself plus the JSON and YAML front-ends.
package format
