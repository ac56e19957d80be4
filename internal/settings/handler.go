package settings

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/solardesk/solardesk/pkg/handlers"
	"github.com/solardesk/solardesk/pkg/routes"
)

// Handler provides HTTP endpoints for settings operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "settings"),
	}
}

// Routes returns the route group definition for settings endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/settings",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/scanner", Handler: h.GetScanner},
			{Method: "PUT", Pattern: "/scanner", Handler: h.PutScanner},
			{Method: "DELETE", Pattern: "/scanner", Handler: h.ResetScanner},
		},
	}
}

// GetScanner returns the effective scanner thresholds.
func (h *Handler) GetScanner(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Scanner(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// PutScanner validates and stores scanner threshold overrides.
func (h *Handler) PutScanner(w http.ResponseWriter, r *http.Request) {
	var s Scanner
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	saved, err := h.sys.SaveScanner(r.Context(), s)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, saved)
}

// ResetScanner removes stored overrides, reverting to defaults.
func (h *Handler) ResetScanner(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.ResetScanner(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
