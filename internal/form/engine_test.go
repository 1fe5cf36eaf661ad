package form

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goline/ams/internal/store"
	"github.com/goline/ams/internal/types"
)

func f64(v float64) *float64 { return &v }

func testFields() []types.FormField {
	return []types.FormField{
		{Label: "Tên sản phẩm", Name: "productName", Required: true, Type: types.FieldText, MaxLength: 255},
		{Label: "Giá", Name: "price", Required: true, Type: types.FieldNumber, MinValue: f64(0), MaxValue: f64(1000000)},
		{Label: "Hình ảnh", Name: "imageUrl", Type: types.FieldFileUpload},
	}
}

func TestValidate_RequiredEmptyRejectsAndNoCallback(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("price", "100")

	called := false
	err := e.Submit(context.Background(), func(context.Context, store.ProductInput) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called, "callback must not fire on validation failure")
	assert.Contains(t, e.Errors()["productName"], "không được để trống")
}

func TestValidate_NumberBelowMinimum(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "-5")

	called := false
	err := e.Submit(context.Background(), func(context.Context, store.ProductInput) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)
	assert.Equal(t, "Giá không được nhỏ hơn 0", e.Errors()["price"])
}

func TestValidate_NumberAboveMaximumAndNaN(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")

	e.SetValue("price", "2000000")
	ok, errs := e.Validate()
	assert.False(t, ok)
	assert.Equal(t, "Giá không được lớn hơn 1000000", errs["price"])

	e.SetValue("price", "abc")
	ok, errs = e.Validate()
	assert.False(t, ok)
	assert.Equal(t, "Giá phải là số", errs["price"])
}

func TestValidate_TextMaxLengthCountsRunes(t *testing.T) {
	fields := []types.FormField{
		{Label: "Tên sản phẩm", Name: "productName", Required: true, Type: types.FieldText, MaxLength: 5},
	}
	e := NewEngine(fields)
	// Six runes, many more bytes.
	e.SetValue("productName", "ĐĐĐĐĐĐ")
	ok, errs := e.Validate()
	assert.False(t, ok)
	assert.Equal(t, "Tên sản phẩm không được vượt quá 5 ký tự", errs["productName"])

	e.SetValue("productName", "ĐĐĐĐĐ")
	ok, _ = e.Validate()
	assert.True(t, ok)
}

func TestValidate_AccumulatesAllViolations(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", strings.Repeat("a", 300))
	e.SetValue("price", "nope")

	ok, errs := e.Validate()
	assert.False(t, ok)
	assert.Len(t, errs, 2, "every violated field reports, not just the first")
}

func TestSetValue_ClearsFieldErrorOptimistically(t *testing.T) {
	e := NewEngine(testFields())
	e.Validate()
	require.NotEmpty(t, e.Errors()["productName"])

	e.SetValue("productName", "Áo thun")
	assert.Empty(t, e.Errors()["productName"], "error clears on change, before the next validate")
	assert.NotEmpty(t, e.Errors()["price"], "untouched fields keep their errors")
}

func TestSetImageFile_BuildsDataURLPreview(t *testing.T) {
	e := NewEngine(testFields())
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	require.NoError(t, e.SetImageFile("imageUrl", bytes.NewReader(png)))
	preview := e.Preview()
	assert.True(t, strings.HasPrefix(preview, "data:image/png;base64,"), "preview = %q", preview)
	assert.Equal(t, png, e.ImageBytes())
}

func TestSetImageFile_RejectsOversizeAndErrorSticks(t *testing.T) {
	e := NewEngine(testFields())
	big := bytes.NewReader(make([]byte, MaxImageBytes+1))

	err := e.SetImageFile("imageUrl", big)
	require.Error(t, err)
	assert.Contains(t, e.Errors()["imageUrl"], "5MB")
	assert.Empty(t, e.Preview())

	// The size error survives a full re-validate.
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "100")
	ok, errs := e.Validate()
	assert.False(t, ok)
	assert.Contains(t, errs["imageUrl"], "5MB")

	// A valid replacement clears it.
	require.NoError(t, e.SetImageFile("imageUrl", bytes.NewReader([]byte("\x89PNG\r\n\x1a\nxxxx"))))
	ok, _ = e.Validate()
	assert.True(t, ok)
}

func TestEditMode_PrepopulatesAndRoundTrips(t *testing.T) {
	e := NewEngine(testFields())
	p := types.Product{ID: "p-1", Name: "Áo thun", Price: 150000, ImageSrc: "data:image/png;base64,AAAA"}
	e.SetProduct(&p)

	assert.Equal(t, "Áo thun", e.Value("productName"))
	assert.Equal(t, "150000", e.Value("price"))
	assert.Equal(t, p.ImageSrc, e.Preview())

	// Submitting without changes yields the original fields minus id.
	var got store.ProductInput
	err := e.Submit(context.Background(), func(_ context.Context, in store.ProductInput) error {
		got = in
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, store.ProductInput{Name: "Áo thun", Price: 150000, ImageSrc: p.ImageSrc}, got)
}

func TestSwitchToCreateModeClearsEverything(t *testing.T) {
	e := NewEngine(testFields())
	e.SetProduct(&types.Product{ID: "p-1", Name: "Áo thun", Price: 150000})
	e.SetValue("price", "abc")
	e.Validate()

	e.SetProduct(nil)
	assert.Empty(t, e.Value("productName"))
	assert.Empty(t, e.Value("price"))
	assert.Empty(t, e.Preview())
	assert.Empty(t, e.Errors())
	assert.Nil(t, e.Editing())
}

func TestSubmit_SuccessResetsFields(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "150000")

	err := e.Submit(context.Background(), func(context.Context, store.ProductInput) error { return nil })
	require.NoError(t, err)
	assert.Empty(t, e.Value("productName"))
	assert.Empty(t, e.SubmitErr())
	assert.False(t, e.Busy())
}

func TestSubmit_CallbackErrorKeepsStateAndSurfaces(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "150000")

	boom := errors.New("backend down")
	err := e.Submit(context.Background(), func(context.Context, store.ProductInput) error { return boom })
	require.ErrorIs(t, err, boom)
	// The dialog stays open with last-entered state and a visible error.
	assert.Equal(t, "Áo thun", e.Value("productName"))
	assert.Equal(t, "backend down", e.SubmitErr())
	assert.False(t, e.Busy())
}

func TestSubmit_SingleFlight(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "150000")

	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- e.Submit(context.Background(), func(context.Context, store.ProductInput) error {
			<-release
			return nil
		})
	}()

	// Wait for the first submission to take the busy flag.
	deadline := time.After(2 * time.Second)
	for !e.Busy() {
		select {
		case <-deadline:
			t.Fatal("first submit never became busy")
		case <-time.After(time.Millisecond):
		}
	}

	err := e.Submit(context.Background(), func(context.Context, store.ProductInput) error { return nil })
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
}

func TestBuildPayload_UnparsablePriceBecomesZero(t *testing.T) {
	e := NewEngine(testFields())
	e.SetValue("productName", "Áo thun")
	e.SetValue("price", "not-a-number")

	got := e.BuildPayload()
	assert.Equal(t, 0.0, got.Price)
	assert.Equal(t, "Áo thun", got.Name)
}
