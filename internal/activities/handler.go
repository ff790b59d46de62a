// internal/activities/handler.go
package activities

import (
	"context"
	"net/http"

	apperrors "activity-signup/internal/common/errors"
	commonhttp "activity-signup/internal/common/http"
	"activity-signup/internal/common/logger"
)

// Handler exposes the Service over HTTP.
type Handler struct {
	config  *Config
	service *Service
	errors  *apperrors.ErrorHandler
	logger  logger.Logger
}

func NewHandler(config *Config, service *Service, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		errors:  apperrors.NewErrorHandler(log),
		logger:  log,
	}
}

// RegisterHTTPHandlers registers:
//
//	GET    /activities
//	POST   /activities/{name}/signup?email=
//	DELETE /activities/{name}/unregister?email=
//
// {name} is percent-decoded by the mux, so Chess%20Club matches "Chess Club".
func (h *Handler) RegisterHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("GET /activities", h.handleList)
	mux.HandleFunc("POST /activities/{name}/signup", h.handleSignup)
	mux.HandleFunc("DELETE /activities/{name}/unregister", h.handleUnregister)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	reg, err := h.service.List(ctx)
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	h.handleRoster(w, r, h.service.Signup)
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	h.handleRoster(w, r, h.service.Unregister)
}

type rosterOp func(ctx context.Context, activity, email string) (string, error)

func (h *Handler) handleRoster(w http.ResponseWriter, r *http.Request, op rosterOp) {
	query := r.URL.Query()
	if !query.Has("email") {
		h.errors.WriteHTTPError(w, r, apperrors.NewMissingParameterError("email"))
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	msg, err := op(ctx, r.PathValue("name"), query.Get("email"))
	if err != nil {
		h.errors.WriteHTTPError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.config.RequestTimeout)
}
