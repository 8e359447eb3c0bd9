// Package convert bridges foreign document formats and the TOON
// value tree. JSON and YAML documents parse to ir.Node and back; the
// codec itself never touches either format.
package convert
