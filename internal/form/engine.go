// Package form implements the dynamic form engine: it takes the form-field
// descriptors interpreted out of the page envelope, tracks per-field values,
// validates input against each field's metadata, and builds the
// product-shaped payload handed to the create-or-edit callback.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goline/ams/internal/obs"
	"github.com/goline/ams/internal/store"
	"github.com/goline/ams/internal/types"
)

// MaxImageBytes caps an uploaded image at 5MB.
const MaxImageBytes = 5 << 20

// Display strings, kept as the product's literal copy.
const (
	msgRequired  = "%s không được để trống"
	msgMaxLength = "%s không được vượt quá %d ký tự"
	msgNaN       = "%s phải là số"
	msgBelowMin  = "%s không được nhỏ hơn %s"
	msgAboveMax  = "%s không được lớn hơn %s"
	msgImageSize = "%s không được vượt quá 5MB"
)

var (
	// ErrInvalid is returned by Submit when validation fails; the callback
	// never fires and the field errors carry the details.
	ErrInvalid = errors.New("form: validation failed")
	// ErrBusy is returned when a submission is already in flight.
	ErrBusy = errors.New("form: submit already in flight")
)

// SubmitFunc is the caller-supplied create-or-edit callback.
type SubmitFunc func(ctx context.Context, payload store.ProductInput) error

// Engine holds the state of one create/edit dialog: the field descriptors
// to render, the values bag, the decoded image preview, and accumulated
// validation errors. All methods are safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	fields  []types.FormField
	values  map[string]string
	image   []byte
	preview string
	errors  map[string]string
	busy    bool
	editing *types.Product
	lastErr string

	// A rejected oversize upload keeps its message until replaced, so
	// Validate rebuilding the error map does not silently drop it.
	imageErr      string
	imageErrField string
}

// NewEngine creates an engine in create mode for the given field set.
func NewEngine(fields []types.FormField) *Engine {
	return &Engine{
		fields: fields,
		values: make(map[string]string),
		errors: make(map[string]string),
	}
}

// SetProduct switches the engine to edit mode, pre-populating the name and
// price values and the image preview from the stored product. A nil product
// switches back to create mode and clears everything.
func (e *Engine) SetProduct(p *types.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p == nil {
		e.resetLocked()
		return
	}
	e.resetLocked()
	cp := *p
	e.editing = &cp
	e.values["productName"] = p.Name
	e.values["price"] = strconv.FormatFloat(p.Price, 'f', -1, 64)
	e.preview = p.ImageSrc
}

// Editing returns the product under edit, or nil in create mode.
func (e *Engine) Editing() *types.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return nil
	}
	cp := *e.editing
	return &cp
}

// SetValue stores a field's raw value. Number fields keep the raw text so
// intermediate non-numeric input survives until validation. A pending error
// on the field is cleared immediately rather than waiting for the next
// Validate.
func (e *Engine) SetValue(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[name] = value
	delete(e.errors, name)
}

// Value returns a field's current raw value.
func (e *Engine) Value(name string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[name]
}

// Validate runs every field's checks and accumulates all violations. It
// reports overall validity and the field-name → message map; it never stops
// at the first failure.
func (e *Engine) Validate() (bool, map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.validateLocked()
	return len(e.errors) == 0, e.errorsCopyLocked()
}

func (e *Engine) validateLocked() {
	errs := make(map[string]string)
	for _, f := range e.fields {
		val := e.values[f.Name]
		if f.Type == types.FieldFileUpload {
			if e.imageErr != "" && e.imageErrField == f.Name {
				errs[f.Name] = e.imageErr
				continue
			}
			// The preview stands in for the value: it is set both by a
			// fresh upload and by edit-mode initialization.
			if f.Required && e.preview == "" {
				errs[f.Name] = fmt.Sprintf(msgRequired, f.Label)
			}
			continue
		}
		if f.Required && val == "" {
			errs[f.Name] = fmt.Sprintf(msgRequired, f.Label)
			continue
		}
		if val == "" {
			continue
		}
		switch f.Type {
		case types.FieldText:
			if f.MaxLength > 0 && len([]rune(val)) > f.MaxLength {
				errs[f.Name] = fmt.Sprintf(msgMaxLength, f.Label, f.MaxLength)
			}
		case types.FieldNumber:
			n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				errs[f.Name] = fmt.Sprintf(msgNaN, f.Label)
				continue
			}
			if f.MinValue != nil && n < *f.MinValue {
				errs[f.Name] = fmt.Sprintf(msgBelowMin, f.Label, formatBound(*f.MinValue))
			}
			if f.MaxValue != nil && n > *f.MaxValue {
				errs[f.Name] = fmt.Sprintf(msgAboveMax, f.Label, formatBound(*f.MaxValue))
			}
		}
	}
	e.errors = errs
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Errors returns a copy of the current field-error map.
func (e *Engine) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errorsCopyLocked()
}

func (e *Engine) errorsCopyLocked() map[string]string {
	out := make(map[string]string, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// Preview returns the current image preview data URL ("" when none).
func (e *Engine) Preview() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preview
}

// Busy reports whether a submission is in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// SubmitErr returns the message of the last failed submit callback, cleared
// by the next successful submit or reset.
func (e *Engine) SubmitErr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Reset clears all field values, the image state, and every error, returning
// the engine to an empty create-mode form.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.values = make(map[string]string)
	e.errors = make(map[string]string)
	e.image = nil
	e.preview = ""
	e.editing = nil
	e.lastErr = ""
	e.imageErr = ""
	e.imageErrField = ""
}

// BuildPayload constructs the product-shaped payload from the current
// values: name from the productName field, price parsed as float (0 when
// unparsable), and the image preview as imageSrc.
func (e *Engine) BuildPayload() store.ProductInput {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payloadLocked()
}

func (e *Engine) payloadLocked() store.ProductInput {
	name := e.values["productName"]
	if name == "" {
		name = e.values["name"]
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(e.values["price"]), 64)
	if err != nil {
		price = 0
	}
	return store.ProductInput{
		Name:     name,
		Price:    price,
		ImageSrc: e.preview,
	}
}

// Submit validates, then runs the callback with the built payload while the
// engine is busy. Validation failure returns ErrInvalid without invoking
// the callback. A callback error is logged, retained for display, and
// returned with the entered values kept so the dialog can stay open. On
// success the engine resets and the caller should close the dialog.
func (e *Engine) Submit(ctx context.Context, fn SubmitFunc) error {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return ErrBusy
	}
	e.validateLocked()
	if len(e.errors) > 0 {
		e.mu.Unlock()
		return ErrInvalid
	}
	payload := e.payloadLocked()
	e.busy = true
	e.mu.Unlock()

	err := fn(ctx, payload)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.busy = false
	if err != nil {
		obs.Logger.Error("form submit failed", "error", err, "edit", e.editing != nil)
		e.lastErr = err.Error()
		return err
	}
	e.resetLocked()
	return nil
}
