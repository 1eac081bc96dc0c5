package adminhandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"talentgrid/internal/domain/audit"
	"talentgrid/internal/platform/metrics"
	"talentgrid/internal/transport/http/api"
	"talentgrid/internal/transport/http/middleware"
)

type Handler struct {
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/metrics", h.handleMetrics)
		r.Get("/audit", h.handleListAudit)
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics collection is disabled", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	events, err := h.Audit.List(r.Context(), user.TenantID, audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorEmail: r.URL.Query().Get("actor"),
	}, limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
