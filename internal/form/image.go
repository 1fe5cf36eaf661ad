package form

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/goline/ams/internal/types"
)

// SetImageFile accepts the uploaded image for the given file_upload field,
// decodes it into a data-URL preview, and keeps the raw bytes. The preview
// string is what ultimately becomes imageSrc on submit.
//
// Files over MaxImageBytes are rejected: the field gets a size error that
// sticks through Validate until a valid file replaces it.
func (e *Engine) SetImageFile(fieldName string, r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	label := fieldName
	for _, f := range e.fields {
		if f.Name == fieldName {
			label = f.Label
			break
		}
	}
	if len(data) > MaxImageBytes {
		msg := fmt.Sprintf(msgImageSize, label)
		e.errors[fieldName] = msg
		e.imageErr = msg
		e.imageErrField = fieldName
		return fmt.Errorf("form: %s", msg)
	}

	mime := http.DetectContentType(data)
	e.image = data
	e.preview = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	e.imageErr = ""
	e.imageErrField = ""
	delete(e.errors, fieldName)
	// Mirror the raw selection into the values bag so required checks on
	// the file field see it even before the preview is consulted.
	e.values[fieldName] = fieldName
	return nil
}

// ImageBytes returns the raw bytes of the accepted upload, nil when none.
func (e *Engine) ImageBytes() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.image == nil {
		return nil
	}
	return append([]byte(nil), e.image...)
}

// FileField returns the first file_upload descriptor, if any. Handlers use
// it to locate the multipart part carrying the image.
func (e *Engine) FileField() (types.FormField, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range e.fields {
		if f.Type == types.FieldFileUpload {
			return f, true
		}
	}
	return types.FormField{}, false
}
