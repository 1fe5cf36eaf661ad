// Package web renders the HTML surface: the home page, the product page
// with its search box, grid, and modal form, and the full-page fetch error
// state. Templates are embedded so the binary is self-contained.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/goline/ams/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("web").Funcs(template.FuncMap{
	"price": FormatPrice,
	// Image sources are data URLs the form engine produced from validated
	// uploads; html/template would otherwise neuter the data: scheme.
	"imgsrc": func(s string) template.URL { return template.URL(s) },
}).ParseFS(templateFS, "templates/*.html"))

// FieldView is one form field ready to render: the descriptor plus its
// current value and inline error.
type FieldView struct {
	Field   types.FormField
	Value   string
	Error   string
	Preview string
}

// FormView is the modal dialog's state.
type FormView struct {
	Heading    string
	Action     string
	SubmitText string
	SubmitErr  string
	Busy       bool
	Fields     []FieldView
}

// ProductsView is everything the product page template needs.
type ProductsView struct {
	Title      string
	ButtonText string
	Query      string
	Products   []types.Product
	Form       *FormView
}

// ErrorView is the full-page fetch error state with its retry target.
type ErrorView struct {
	Message  string
	RetryURL string
}

// RenderHome writes the home page.
func RenderHome(w io.Writer) error {
	return pages.ExecuteTemplate(w, "home.html", nil)
}

// RenderProducts writes the product page.
func RenderProducts(w io.Writer, view ProductsView) error {
	return pages.ExecuteTemplate(w, "products.html", view)
}

// RenderError writes the full-page error state.
func RenderError(w io.Writer, view ErrorView) error {
	return pages.ExecuteTemplate(w, "error.html", view)
}

// FormatPrice renders a price the way the grid shows it: vi-VN thousands
// grouping with a trailing đồng sign, e.g. 150000 → "150.000 đ".
func FormatPrice(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " đ"
}
