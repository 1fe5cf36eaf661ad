package handler

import (
	"context"
	"net/http"

	"github.com/goline/ams/internal/pagedef"
	"github.com/goline/ams/internal/types"
)

// EnvelopeSource supplies the page-description envelope, either from a
// remote backend or from the locally mounted management endpoint.
type EnvelopeSource interface {
	FetchManagement(ctx context.Context) (*types.Envelope, error)
}

// ManagementHandler serves GET /products/management: the envelope assembled
// from the CUE page definition.
type ManagementHandler struct {
	env *types.Envelope
}

// NewManagementHandler builds the handler. The envelope is assembled once:
// the definition is immutable for the process lifetime, and serving the
// same value keeps refetches reference-stable.
func NewManagementHandler(def *pagedef.Definition) *ManagementHandler {
	return &ManagementHandler{env: def.Envelope()}
}

// GetManagement writes the envelope.
func (h *ManagementHandler) GetManagement(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.env)
}

// LocalSource adapts a ManagementHandler into an EnvelopeSource, skipping
// the HTTP round trip when the backend is this same process.
type LocalSource struct {
	h *ManagementHandler
}

// NewLocalSource wraps h.
func NewLocalSource(h *ManagementHandler) *LocalSource {
	return &LocalSource{h: h}
}

// FetchManagement returns the served envelope. The pointer is stable across
// calls, so the interpreter's memoization holds until the process restarts.
func (s *LocalSource) FetchManagement(_ context.Context) (*types.Envelope, error) {
	return s.h.env, nil
}
