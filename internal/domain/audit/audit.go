package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	ActionEmployeeMoved  = "calibration.employee_moved"
	ActionSessionStarted = "calibration.session_started"
	ActionSessionClosed  = "calibration.session_closed"

	EntitySession    = "calibration_session"
	EntityAdjustment = "calibration_adjustment"
)

type Event struct {
	ID         string          `json:"id"`
	ActorEmail string          `json:"actorEmail"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Details    json.RawMessage `json:"details,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	ActorEmail string
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Record stores one audit event; details may be any JSON-marshalable
// payload (the accepted move, the sealed count, ...).
func (s *Service) Record(ctx context.Context, tenantID, actorEmail, action, entityType, entityID, requestID string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (tenant_id, actor_email, action, entity_type, entity_id, details_json, request_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, tenantID, actorEmail, action, entityType, entityID, detailsJSON, requestID)
	return err
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter, limit, offset int) ([]Event, error) {
	query := "SELECT id, actor_email, action, entity_type, entity_id, request_id, created_at, details_json FROM audit_events WHERE tenant_id = $1"
	args := []any{tenantID}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", len(args)+1)
		args = append(args, filter.Action)
	}
	if filter.EntityType != "" {
		query += fmt.Sprintf(" AND entity_type = $%d", len(args)+1)
		args = append(args, filter.EntityType)
	}
	if filter.ActorEmail != "" {
		query += fmt.Sprintf(" AND actor_email = $%d", len(args)+1)
		args = append(args, filter.ActorEmail)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.ActorEmail, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.CreatedAt, &evt.Details); err != nil {
			return nil, err
		}
		out = append(out, evt)
	}
	return out, rows.Err()
}
