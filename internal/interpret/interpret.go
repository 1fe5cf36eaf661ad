// Package interpret turns the generic component list of a page-description
// envelope into the concrete model the product page renders from.
package interpret

import (
	"sync"

	"github.com/goline/ams/internal/types"
)

// DefaultButtonText is used when the envelope carries no Button component.
const DefaultButtonText = "Create Product"

// PageModel is the derived view of one envelope: everything the product
// page needs, already dispatched out of the component union.
type PageModel struct {
	Title      string
	FormFields []types.FormField
	ButtonText string
	Products   []types.Product
}

// Interpret walks the envelope's component list once and extracts the page
// title, form-field definitions, button label, and initial product list.
//
// Dispatch is by component type. A component whose customAttributes lack
// the subfield for its type is treated as absent and leaves the default in
// place; unknown types are skipped so the server can introduce new
// components without breaking this client. When a type occurs more than
// once, the last occurrence in array order wins.
func Interpret(env *types.Envelope) PageModel {
	m := PageModel{ButtonText: DefaultButtonText}
	if env == nil {
		return m
	}
	for _, c := range env.Data {
		switch c.Type {
		case types.ComponentLabel:
			if c.CustomAttributes.Label != nil {
				m.Title = c.CustomAttributes.Label.Text
			}
		case types.ComponentProductSubmitForm:
			if c.CustomAttributes.Form != nil {
				m.FormFields = c.CustomAttributes.Form
			}
		case types.ComponentButton:
			if c.CustomAttributes.Button != nil {
				m.ButtonText = c.CustomAttributes.Button.Text
			}
		case types.ComponentProductList:
			if c.CustomAttributes.ProductList != nil {
				m.Products = c.CustomAttributes.ProductList.Items
			}
		}
	}
	return m
}

// Interpreter memoizes Interpret on envelope identity. The envelope is
// immutable once fetched, so pointer equality is a sufficient cache key:
// repeated renders of the same fetch skip the walk, and a refresh (new
// envelope value) recomputes.
type Interpreter struct {
	mu     sync.Mutex
	last   *types.Envelope
	cached PageModel
}

// Model returns the page model for env, reusing the previous derivation
// when env is the same envelope as last time.
func (i *Interpreter) Model(env *types.Envelope) PageModel {
	i.mu.Lock()
	defer i.mu.Unlock()
	if env != nil && env == i.last {
		return i.cached
	}
	i.cached = Interpret(env)
	i.last = env
	return i.cached
}
