// Package pagedef loads the CUE-authored page definition that the
// management endpoint serves. The CUE schema constrains field types and
// bounds at load time, so a malformed definition fails startup instead of
// producing a broken form.
package pagedef

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/goline/ams/internal/types"
)

//go:embed page.cue
var defaultPage []byte

// Definition is the decoded page: everything the envelope's components are
// assembled from.
type Definition struct {
	Title    string            `json:"title"`
	Button   string            `json:"button"`
	Form     []types.FormField `json:"form"`
	Products []types.Product   `json:"products"`
}

// LoadDefault loads the embedded page definition.
func LoadDefault() (*Definition, error) {
	return parse(defaultPage, "page.cue")
}

// Load loads a page definition from path, falling back to the embedded one
// when path is empty.
func Load(path string) (*Definition, error) {
	if path == "" {
		return LoadDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page definition: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, filename string) (*Definition, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling %s: %w", filename, err)
	}
	page := v.LookupPath(cue.ParsePath("page"))
	if err := page.Err(); err != nil {
		return nil, fmt.Errorf("%s: missing page: %w", filename, err)
	}
	if err := page.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validating %s: %w", filename, err)
	}
	var def Definition
	if err := page.Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return &def, nil
}

// Components assembles the envelope's data array from the definition.
// Order is Label, ProductSubmitForm, Button, ProductList; the interpreter
// does not depend on it, but a stable order keeps the wire output diffable.
func (d *Definition) Components() []types.Component {
	return []types.Component{
		{
			Type:             types.ComponentLabel,
			CustomAttributes: types.CustomAttributes{Label: &types.TextAttr{Text: d.Title}},
		},
		{
			Type:             types.ComponentProductSubmitForm,
			CustomAttributes: types.CustomAttributes{Form: d.Form},
		},
		{
			Type:             types.ComponentButton,
			CustomAttributes: types.CustomAttributes{Button: &types.TextAttr{Text: d.Button}},
		},
		{
			Type:             types.ComponentProductList,
			CustomAttributes: types.CustomAttributes{ProductList: &types.ProductListAttr{Items: d.Products}},
		},
	}
}

// Envelope wraps the components in the management response envelope.
func (d *Definition) Envelope() *types.Envelope {
	return &types.Envelope{
		Code:    "200",
		Message: "OK",
		Data:    d.Components(),
	}
}
