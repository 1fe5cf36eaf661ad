// Package types provides the shared data shapes for products, form-field
// descriptors, and the page-description envelope served by the management
// endpoint. The JSON field names are the wire contract and must not change.
package types

// Product is one entry in the product grid.
//
// ID is assigned by the store on creation, not by the server. ImageSrc may
// be a data URL produced from a client-side file preview rather than a
// hosted image.
type Product struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageSrc string  `json:"imageSrc,omitempty"`
}

// Field types understood by the form engine. Anything else renders nothing.
const (
	FieldText       = "text"
	FieldNumber     = "number"
	FieldFileUpload = "file_upload"
)

// FormField describes one input the form engine must render and validate.
// Name keys both the values bag and the constructed product payload.
// MinValue and MaxValue are pointers so a configured bound of zero is
// distinguishable from an absent one.
type FormField struct {
	Label     string   `json:"label"`
	Name      string   `json:"name"`
	Required  bool     `json:"required,omitempty"`
	Type      string   `json:"type"`
	MaxLength int      `json:"maxLength,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty"`
}

// Component type tags. The set is closed on the interpreter side; unknown
// tags are ignored so the schema can grow without breaking old clients.
const (
	ComponentLabel             = "Label"
	ComponentProductSubmitForm = "ProductSubmitForm"
	ComponentButton            = "Button"
	ComponentProductList       = "ProductList"
)

// TextAttr carries the display text of a Label or Button component.
type TextAttr struct {
	Text string `json:"text"`
}

// ProductListAttr carries the initial product list.
type ProductListAttr struct {
	Items []Product `json:"items"`
}

// CustomAttributes holds the per-type payload of a component. Exactly one
// subfield is relevant for a given component type; the rest stay nil.
type CustomAttributes struct {
	Label       *TextAttr        `json:"label,omitempty"`
	Form        []FormField      `json:"form,omitempty"`
	Button      *TextAttr        `json:"button,omitempty"`
	ProductList *ProductListAttr `json:"productlist,omitempty"`
}

// Component is one server-described UI fragment: a type tag plus the
// attributes specific to that type.
type Component struct {
	Type             string           `json:"type"`
	CustomAttributes CustomAttributes `json:"customAttributes"`
}

// Envelope is the top-level response of GET /products/management.
type Envelope struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    []Component `json:"data"`
}
