package calibration

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetSession(ctx context.Context, tenantID, sessionID string) (Session, error) {
	var session Session
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, name, status, created_at
    FROM calibration_sessions
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, sessionID).Scan(&session.ID, &session.TenantID, &session.Name, &session.Status, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

func (s *Store) ListParticipants(ctx context.Context, sessionID string) ([]Participant, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT session_id, email, role
    FROM calibration_participants
    WHERE session_id = $1
    ORDER BY email
  `, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.SessionID, &p.Email, &p.Role); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (s *Store) UpdateSessionStatus(ctx context.Context, tenantID, sessionID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE calibration_sessions
    SET status = $1
    WHERE tenant_id = $2 AND id = $3
  `, status, tenantID, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *Store) ListRatings(ctx context.Context, tenantID, sessionID string) ([]Rating, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT r.id, r.employee_id, e.first_name || ' ' || e.last_name,
           r.calculated_score, r.calculated_level, r.calculated_quadrant,
           r.final_score, r.potential_score,
           r.aspiration, r.ability, r.engagement
    FROM calibration_ratings r
    JOIN employees e ON r.employee_id = e.id
    WHERE r.tenant_id = $1 AND r.session_id = $2
    ORDER BY e.last_name, e.first_name
  `, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		var r Rating
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName,
			&r.CalculatedScore, &r.CalculatedLevel, &r.CalculatedQuad,
			&r.FinalScore, &r.PotentialScore,
			&r.AspirationFactor, &r.AbilityFactor, &r.EngagementFactor); err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// ListAdjustments orders by (created_at, id) so that reconciliation's
// first-match-wins rule is deterministic across polls and viewers. The
// join enforces that the session belongs to the caller's tenant.
func (s *Store) ListAdjustments(ctx context.Context, tenantID, sessionID string) ([]Adjustment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.rating_id, a.new_final_score, a.new_potential_score,
           a.new_level, a.new_quadrant, a.justification, a.status, a.created_by, a.created_at
    FROM calibration_adjustments a
    JOIN calibration_sessions s ON a.session_id = s.id
    WHERE s.tenant_id = $1 AND a.session_id = $2
    ORDER BY a.created_at, a.id
  `, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []Adjustment
	for rows.Next() {
		var a Adjustment
		if err := rows.Scan(&a.ID, &a.RatingID, &a.NewFinalScore, &a.NewPotentialScore,
			&a.NewLevel, &a.NewQuadrant, &a.Justification, &a.Status, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (s *Store) CreateAdjustment(ctx context.Context, sessionID string, adj Adjustment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO calibration_adjustments
      (session_id, rating_id, new_final_score, new_potential_score,
       new_level, new_quadrant, justification, status, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, sessionID, adj.RatingID, adj.NewFinalScore, adj.NewPotentialScore,
		adj.NewLevel, adj.NewQuadrant, adj.Justification, adj.Status, adj.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SealPendingAdjustments freezes the pending set when a session closes.
func (s *Store) SealPendingAdjustments(ctx context.Context, sessionID string) (int, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE calibration_adjustments
    SET status = $1
    WHERE session_id = $2 AND status = $3
  `, AdjustmentStatusSealed, sessionID, AdjustmentStatusPending)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
