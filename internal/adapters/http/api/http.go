// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/velocast/internal/app"
	"github.com/okian/velocast/internal/domain/model"
	"github.com/okian/velocast/internal/domain/pipeline"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PredictDependencies
	ModelDependencies
	TrainDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	modelHandler   *ModelHandler
	trainHandler   *TrainHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		predictHandler: NewPredictHandler(deps),
		modelHandler:   NewModelHandler(deps),
		trainHandler:   NewTrainHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/model/reload", MetricsMiddleware(s.modelHandler.HandleReload, "model_reload"))
	mux.HandleFunc("/model", MetricsMiddleware(s.modelHandler.HandleGetModel, "model"))
	mux.HandleFunc("/train", MetricsMiddleware(s.trainHandler.HandleTrain, "train"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates domain and service error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	code := service.Kind(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		status, code = http.StatusRequestEntityTooLarge, "body_too_large"
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrMalformedInput):
		status, code = http.StatusBadRequest, service.KindMalformedInput
	case errors.Is(err, model.ErrUnseenCategory), errors.Is(err, model.ErrNoTrainingData):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrModelNotFound), errors.Is(err, service.ErrNotStarted):
		status = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrTrainingInProgress):
		status = http.StatusConflict
	case errors.Is(err, service.ErrTrainingDisabled):
		status, code = http.StatusNotImplemented, "training_disabled"
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeError(w, status, code, err)
}

// ModelDependencies exposes the served model.
type ModelDependencies interface {
	ModelInfo(ctx context.Context) (pipeline.Info, error)
	Reload(ctx context.Context) (pipeline.Info, error)
}
