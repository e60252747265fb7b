// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ModelHandler exposes metadata of the served model and reloads it.
type ModelHandler struct {
	deps ModelDependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps ModelDependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

// HandleGetModel handles GET /model requests.
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	info, err := h.deps.ModelInfo(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleReload handles POST /model/reload requests.
func (h *ModelHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	info, err := h.deps.Reload(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
