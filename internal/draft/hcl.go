package draft

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// ParseHCL decodes an HCL draft into a tree.
func ParseHCL(filename string, src []byte) (map[string]any, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("failed to parse HCL file %s: unexpected body type %T", filename, file.Body)
	}

	doc, diags := decodeBody(body)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return doc, nil
}

// decodeBody converts attributes to values and blocks to maps or lists.
func decodeBody(body *hclsyntax.Body) (map[string]any, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	out := make(map[string]any, len(body.Attributes)+len(body.Blocks))

	for name, attr := range body.Attributes {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		native, err := ctyToNative(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported value",
				Detail:   fmt.Sprintf("Attribute %q: %s.", name, err),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		out[name] = native
	}

	// Block order matters for lists, so walk blocks in source order.
	seen := map[string]*hclsyntax.Block{}
	for _, block := range body.Blocks {
		if _, clash := body.Attributes[block.Type]; clash {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + block.Type + "\" definition",
				Detail:   "\"" + block.Type + "\" is already set as an attribute.",
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}

		value, blockDiags := decodeBody(block.Body)
		diags = append(diags, blockDiags...)

		switch len(block.Labels) {
		case 0:
			if prev, dup := seen[block.Type]; dup {
				detail := "Only one \"" + block.Type + "\" block is allowed."
				if len(prev.Labels) > 0 {
					detail = "\"" + block.Type + "\" blocks must all be labeled."
				}
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + block.Type + "\" block",
					Detail:   detail,
					Subject:  block.DefRange().Ptr(),
				})
				continue
			}
			out[block.Type] = value
		case 1:
			if prev, dup := seen[block.Type]; dup && len(prev.Labels) == 0 {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + block.Type + "\" block",
					Detail:   "\"" + block.Type + "\" blocks must all be labeled.",
					Subject:  block.DefRange().Ptr(),
				})
				continue
			}
			value["Name"] = block.Labels[0]
			list, _ := out[block.Type].([]any)
			out[block.Type] = append(list, value)
		default:
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Too many block labels",
				Detail:   "A \"" + block.Type + "\" block takes at most one label, its Name.",
				Subject:  block.DefRange().Ptr(),
			})
			continue
		}
		seen[block.Type] = block
	}

	return out, diags
}
