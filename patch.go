package toon

import (
	jsonpatch "github.com/evanphx/json-patch"

	"github.com/toon-format/toon-go/convert"
	"github.com/toon-format/toon-go/ir"
)

// MergePatch applies patch to doc with RFC 7386 merge-patch
// semantics: object fields merge recursively, null patch values
// delete, everything else replaces.
func MergePatch(doc, patch *ir.Node) (*ir.Node, error) {
	docJSON, err := convert.ToJSON(doc)
	if err != nil {
		return nil, err
	}
	patchJSON, err := convert.ToJSON(patch)
	if err != nil {
		return nil, err
	}
	merged, err := jsonpatch.MergePatch(docJSON, patchJSON)
	if err != nil {
		return nil, err
	}
	return convert.FromJSON(merged)
}
