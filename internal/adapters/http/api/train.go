// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/velocast/internal/app"
)

// TrainDependencies defines the interface for retraining.
type TrainDependencies interface {
	Train(ctx context.Context) (service.TrainingReport, error)
}

// TrainHandler handles retraining requests.
type TrainHandler struct {
	deps TrainDependencies
}

// NewTrainHandler creates a new train handler.
func NewTrainHandler(deps TrainDependencies) *TrainHandler {
	return &TrainHandler{deps: deps}
}

// HandleTrain handles POST /train requests. Training runs synchronously;
// a request arriving while another run is active gets 409.
func (h *TrainHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	report, err := h.deps.Train(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
