package calibrationhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talentgrid/internal/domain/audit"
	"talentgrid/internal/domain/calibration"
	"talentgrid/internal/platform/metrics"
	"talentgrid/internal/transport/http/api"
	"talentgrid/internal/transport/http/middleware"
)

type Handler struct {
	Service *calibration.Service
	Audit   *audit.Service
	Metrics *metrics.Collector
}

func NewHandler(service *calibration.Service, auditSvc *audit.Service, collector *metrics.Collector) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/", h.handleGetSession)
		r.Get("/grid", h.handleGetGrid)
		r.Get("/ratings", h.handleListRatings)
		r.Get("/adjustments", h.handleListAdjustments)
		r.Post("/moves/validate", h.handleValidateMove)
		r.Post("/moves", h.handleMoveEmployee)
		r.Put("/status", h.handleStartSession)
		r.Post("/close", h.handleCloseSession)
	})
}

// sessionView decorates the session with the caller's permissions so the
// client can disable editing without re-deriving role rules.
type sessionView struct {
	Session      calibration.Session       `json:"session"`
	Participants []calibration.Participant `json:"participants"`
	Role         string                    `json:"role"`
	CanEdit      bool                      `json:"canEdit"`
	IsReadOnly   bool                      `json:"isReadOnly"`
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	snap, err := h.Service.LoadSession(r.Context(), user.TenantID, sessionID)
	if err != nil {
		h.fail(w, r, err, "session_load_failed", "failed to load session")
		return
	}
	participants := h.Service.Participants(sessionID)
	role := h.Service.RoleFor(participants, user.Email)
	api.Success(w, sessionView{
		Session:      snap.Session,
		Participants: participants,
		Role:         role,
		CanEdit:      calibration.CanEdit(role),
		IsReadOnly:   calibration.IsReadOnly(snap.Session, role),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	snap, ok := h.Service.Snapshot(user.TenantID, sessionID)
	if !ok {
		var err error
		snap, err = h.Service.LoadSession(r.Context(), user.TenantID, sessionID)
		if err != nil {
			h.fail(w, r, err, "grid_load_failed", "failed to load grid")
			return
		}
	}
	api.Success(w, snap, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRatings(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	ratings, err := h.Service.Ratings(r.Context(), user.TenantID, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, r, err, "rating_list_failed", "failed to list ratings")
		return
	}
	api.Success(w, ratings, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListAdjustments(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	adjustments, err := h.Service.Adjustments(r.Context(), user.TenantID, chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, r, err, "adjustment_list_failed", "failed to list adjustments")
		return
	}
	api.Success(w, adjustments, middleware.GetRequestID(r.Context()))
}

type movePayload struct {
	EmployeeID     string `json:"employeeId"`
	TargetQuadrant string `json:"targetQuadrant"`
	Justification  string `json:"justification"`
}

func (h *Handler) handleValidateMove(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.ValidateMove(r.Context(), user.TenantID, sessionID, payload.EmployeeID, payload.TargetQuadrant)
	if err != nil {
		h.fail(w, r, err, "move_validate_failed", "failed to validate move")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordMove(result.HasWarning, false)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMoveEmployee(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var payload movePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	result, err := h.Service.MoveEmployee(r.Context(), user.TenantID, sessionID, user.Email,
		payload.EmployeeID, payload.TargetQuadrant, payload.Justification)
	if err != nil {
		if h.Metrics != nil && errors.Is(err, calibration.ErrSessionReadOnly) {
			h.Metrics.RecordMove(false, true)
		}
		h.fail(w, r, err, "move_failed", "failed to move employee")
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordMove(result.Validation.HasWarning, false)
	}

	if err := h.Audit.Record(r.Context(), user.TenantID, user.Email, audit.ActionEmployeeMoved,
		audit.EntityAdjustment, result.AdjustmentID, middleware.GetRequestID(r.Context()), payload); err != nil {
		slog.Warn("move audit record failed", "err", err)
	}
	api.Created(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Status != calibration.SessionStatusActive {
		api.Fail(w, http.StatusBadRequest, "invalid_status", "only a transition to active is supported", middleware.GetRequestID(r.Context()))
		return
	}

	snap, err := h.Service.StartSession(r.Context(), user.TenantID, sessionID, user.Email)
	if err != nil {
		h.fail(w, r, err, "session_start_failed", "failed to start session")
		return
	}

	if err := h.Audit.Record(r.Context(), user.TenantID, user.Email, audit.ActionSessionStarted,
		audit.EntitySession, sessionID, middleware.GetRequestID(r.Context()), nil); err != nil {
		slog.Warn("start audit record failed", "err", err)
	}
	api.Success(w, snap, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	snap, sealed, err := h.Service.CloseSession(r.Context(), user.TenantID, sessionID, user.Email)
	if err != nil {
		h.fail(w, r, err, "session_close_failed", "failed to close session")
		return
	}

	if err := h.Audit.Record(r.Context(), user.TenantID, user.Email, audit.ActionSessionClosed,
		audit.EntitySession, sessionID, middleware.GetRequestID(r.Context()),
		map[string]any{"sealedAdjustments": sealed}); err != nil {
		slog.Warn("close audit record failed", "err", err)
	}
	api.Success(w, map[string]any{"session": snap.Session, "sealedAdjustments": sealed}, middleware.GetRequestID(r.Context()))
}

// fail maps domain sentinels to stable HTTP codes; everything else is a
// 500 with the generic message (the domain error text may carry row ids).
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, code, fallback string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, calibration.ErrSessionNotFound), errors.Is(err, calibration.ErrRatingNotFound):
		api.Fail(w, http.StatusNotFound, code, err.Error(), requestID)
	case errors.Is(err, calibration.ErrSessionReadOnly):
		api.Fail(w, http.StatusForbidden, code, err.Error(), requestID)
	case errors.Is(err, calibration.ErrJustificationRequired),
		errors.Is(err, calibration.ErrUnknownQuadrant),
		errors.Is(err, calibration.ErrSessionNotDraft),
		errors.Is(err, calibration.ErrSessionAlreadyClosed):
		api.Fail(w, http.StatusUnprocessableEntity, code, err.Error(), requestID)
	default:
		slog.Warn(fallback, "err", err, "requestId", requestID)
		api.Fail(w, http.StatusInternalServerError, code, fallback, requestID)
	}
}
