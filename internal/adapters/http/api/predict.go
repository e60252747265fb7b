// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/velocast/internal/domain/model"
)

// PredictDependencies defines the interface for prediction.
type PredictDependencies interface {
	Predict(ctx context.Context, obs model.Observation) (int, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

type predictResponse struct {
	Count int `json:"cnt"`
}

// HandlePredict handles POST /predict requests. The body is a JSON object with
// dteday, hr, weathersit, temp, atemp, hum and windspeed.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	in, err := decodeObject(w, r)
	if err != nil {
		writeDomainError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	obs, err := model.ParseObservation(in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	n, err := h.deps.Predict(r.Context(), obs)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Count: n})
}

// decodeObject reads a single JSON object, keeping numbers as json.Number.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var in map[string]any
	if err := dec.Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrBodyTooLarge
		}
		return nil, err
	}
	if in == nil {
		return nil, errors.New("body must be a JSON object")
	}
	return in, nil
}

// allowMethod writes 405 unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", ErrMethodNotAllowed)
	return false
}
