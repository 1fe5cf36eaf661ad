package handler

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/goline/ams/internal/form"
	"github.com/goline/ams/internal/interpret"
	"github.com/goline/ams/internal/live"
	"github.com/goline/ams/internal/obs"
	"github.com/goline/ams/internal/store"
	"github.com/goline/ams/internal/types"
	"github.com/goline/ams/internal/web"
)

// PageHandler serves the HTML surface: home, the product page, and the
// create/edit form flows.
type PageHandler struct {
	source EnvelopeSource
	store  store.Store
	hub    *live.Hub
	interp interpret.Interpreter

	// One submission in flight at a time, the modal's submit-button
	// semantics carried over to the POST path.
	submitMu sync.Mutex
}

// NewPageHandler creates a PageHandler on the given envelope source, store,
// and live hub.
func NewPageHandler(source EnvelopeSource, st store.Store, hub *live.Hub) *PageHandler {
	return &PageHandler{source: source, store: st, hub: hub}
}

// Home renders the landing page with its single navigation action.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderHome(w); err != nil {
		obs.Logger.Error("render home", "error", err)
	}
}

// loadModel fetches the envelope, derives the page model, and seeds the
// store. On fetch failure it renders the full-page error state with a
// retry action and reports false.
func (h *PageHandler) loadModel(w http.ResponseWriter, r *http.Request) (interpret.PageModel, bool) {
	env, err := h.source.FetchManagement(r.Context())
	if err != nil {
		obs.Logger.Error("management fetch failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		web.RenderError(w, web.ErrorView{Message: err.Error(), RetryURL: "/products"})
		return interpret.PageModel{}, false
	}
	model := h.interp.Model(env)
	if err := h.store.Seed(r.Context(), model.Products); err != nil {
		obs.Logger.Error("store seed failed", "error", err)
	}
	return model, true
}

// GetProducts renders the product grid, filtered by the q search term.
// ?refresh=1 re-fetches and fully replaces the store, discarding local
// edits.
func (h *PageHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	model, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("refresh") == "1" {
		if err := h.store.Replace(r.Context(), model.Products); err != nil {
			obs.Logger.Error("store replace failed", "error", err)
		}
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, http.StatusOK, model, nil)
}

// NewForm renders the create-mode dialog.
func (h *PageHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	model, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	engine := form.NewEngine(model.FormFields)
	h.renderPage(w, r, http.StatusOK, model, buildFormView(engine, model, "/products", false))
}

// EditForm renders the edit-mode dialog pre-populated from the stored
// product. An unknown id falls back to the grid.
func (h *PageHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	model, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	p, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		obs.Logger.Error("store get failed", "error", err)
	}
	if !found {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	engine := form.NewEngine(model.FormFields)
	engine.SetProduct(&p)
	h.renderPage(w, r, http.StatusOK, model, buildFormView(engine, model, "/products/"+id, true))
}

// CreateProduct handles the create-mode submit.
func (h *PageHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	model, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	engine := form.NewEngine(model.FormFields)
	if !h.populate(w, r, engine, model) {
		return
	}
	h.finishSubmit(w, r, engine, model, "/products", false, func(ctx context.Context, in store.ProductInput) error {
		if _, err := h.store.Create(ctx, in); err != nil {
			return err
		}
		return nil
	})
}

// UpdateProduct handles the edit-mode submit for /products/{id}.
func (h *PageHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	model, ok := h.loadModel(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	p, found, err := h.store.Get(r.Context(), id)
	if err != nil {
		obs.Logger.Error("store get failed", "error", err)
	}
	if !found {
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}
	engine := form.NewEngine(model.FormFields)
	// Pre-populate from the stored product so an edit without a new upload
	// keeps the existing image, then let the posted values override.
	engine.SetProduct(&p)
	if !h.populate(w, r, engine, model) {
		return
	}
	h.finishSubmit(w, r, engine, model, "/products/"+id, true, func(ctx context.Context, in store.ProductInput) error {
		return h.store.Update(ctx, id, in)
	})
}

// populate feeds the multipart form into the engine: text and number
// fields through SetValue, the file field through SetImageFile. An
// oversize upload leaves its field error in place for Submit to reject.
func (h *PageHandler) populate(w http.ResponseWriter, r *http.Request, engine *form.Engine, model interpret.PageModel) bool {
	if err := r.ParseMultipartForm(form.MaxImageBytes + (1 << 20)); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "could not parse form: "+err.Error())
		return false
	}
	for _, f := range model.FormFields {
		if f.Type == types.FieldFileUpload {
			file, _, err := r.FormFile(f.Name)
			if err != nil {
				// No new file selected; edit mode keeps the stored preview.
				continue
			}
			if err := engine.SetImageFile(f.Name, file); err != nil {
				obs.Logger.Warn("image rejected", "field", f.Name, "error", err)
			}
			file.Close()
			continue
		}
		if vs, present := r.MultipartForm.Value[f.Name]; present && len(vs) > 0 {
			engine.SetValue(f.Name, vs[0])
		}
	}
	return true
}

// finishSubmit runs the engine submit with single-flight protection and
// maps the outcome to HTTP: redirect on success, 422 with inline errors on
// validation failure, 500 with the dialog kept open on a callback error.
func (h *PageHandler) finishSubmit(w http.ResponseWriter, r *http.Request, engine *form.Engine, model interpret.PageModel, action string, edit bool, fn form.SubmitFunc) {
	if !h.submitMu.TryLock() {
		fv := buildFormView(engine, model, action, edit)
		fv.SubmitErr = "Một thao tác khác đang được xử lý, vui lòng thử lại."
		h.renderPage(w, r, http.StatusConflict, model, fv)
		return
	}
	defer h.submitMu.Unlock()

	err := engine.Submit(r.Context(), func(ctx context.Context, in store.ProductInput) error {
		if err := fn(ctx, in); err != nil {
			return err
		}
		h.broadcast(ctx)
		return nil
	})
	switch {
	case err == nil:
		http.Redirect(w, r, "/products", http.StatusSeeOther)
	case errors.Is(err, form.ErrInvalid):
		h.renderPage(w, r, http.StatusUnprocessableEntity, model, buildFormView(engine, model, action, edit))
	default:
		h.renderPage(w, r, http.StatusInternalServerError, model, buildFormView(engine, model, action, edit))
	}
}

// broadcast pushes the full current list to live subscribers.
func (h *PageHandler) broadcast(ctx context.Context) {
	products, err := h.store.Filter(ctx, "")
	if err != nil {
		obs.Logger.Error("store filter failed", "error", err)
		return
	}
	h.hub.Broadcast(products)
}

func (h *PageHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, model interpret.PageModel, fv *web.FormView) {
	q := r.URL.Query().Get("q")
	products, err := h.store.Filter(r.Context(), q)
	if err != nil {
		obs.Logger.Error("store filter failed", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	view := web.ProductsView{
		Title:      model.Title,
		ButtonText: model.ButtonText,
		Query:      q,
		Products:   products,
		Form:       fv,
	}
	if err := web.RenderProducts(w, view); err != nil {
		obs.Logger.Error("render products", "error", err)
	}
}

// buildFormView snapshots the engine into the template's form model.
func buildFormView(engine *form.Engine, model interpret.PageModel, action string, edit bool) *web.FormView {
	errs := engine.Errors()
	fv := &web.FormView{
		Action:     action,
		SubmitErr:  engine.SubmitErr(),
		Busy:       engine.Busy(),
		Heading:    "Tạo sản phẩm mới",
		SubmitText: model.ButtonText,
	}
	if edit {
		fv.Heading = "Chỉnh sửa sản phẩm"
		fv.SubmitText = "Lưu thay đổi"
	}
	for _, f := range model.FormFields {
		view := web.FieldView{
			Field: f,
			Value: engine.Value(f.Name),
			Error: errs[f.Name],
		}
		if f.Type == types.FieldFileUpload {
			view.Preview = engine.Preview()
		}
		fv.Fields = append(fv.Fields, view)
	}
	return fv
}
