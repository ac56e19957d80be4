package duplicates

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/solardesk/solardesk/pkg/handlers"
	"github.com/solardesk/solardesk/pkg/pagination"
	"github.com/solardesk/solardesk/pkg/routes"
)

// Handler provides HTTP endpoints for duplicate detection and resolution.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "duplicates"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for duplicate endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/duplicates",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/dismissals", Handler: h.Dismissals},
			{Method: "POST", Pattern: "/scan", Handler: h.Scan},
			{Method: "POST", Pattern: "/dismiss", Handler: h.Dismiss},
			{Method: "POST", Pattern: "/resolve", Handler: h.ConfirmDelete},
			{Method: "POST", Pattern: "/merge", Handler: h.Merge},
		},
	}
}

// Scan runs a synchronous duplicate scan over all active projects.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Scan(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Dismiss marks a pair as a confirmed non-duplicate.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var cmd DismissCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Dismiss(r.Context(), cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ConfirmDelete resolves a pair by soft-deleting one record.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	var cmd DeleteCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.ConfirmDelete(r.Context(), cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Merge resolves a pair by reassigning child rows before soft-deleting
// the merged record.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var cmd MergeCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Merge(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Dismissals lists the dismissal ledger, most recent first.
func (h *Handler) Dismissals(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Dismissals(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
