package reportshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentgrid/internal/domain/reports"
	"talentgrid/internal/transport/http/api"
	"talentgrid/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions/{sessionID}/report", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleSummary)
		r.Post("/pdf", h.handleGeneratePDF)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	summary, err := h.Service.SessionSummary(r.Context(), user.TenantID, chi.URLParam(r, "sessionID"))
	if err != nil {
		slog.Warn("session summary failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "failed to build session summary", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	path, err := h.Service.GenerateSessionPDF(r.Context(), user.TenantID, chi.URLParam(r, "sessionID"))
	if err != nil {
		slog.Warn("session report generation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to generate session report", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, map[string]string{"path": path}, middleware.GetRequestID(r.Context()))
}
