package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// PendingMove is one not-yet-approved adjustment with its justification,
// listed in the session report appendix.
type PendingMove struct {
	EmployeeName  string
	TargetQuad    string
	Justification string
	CreatedBy     string
	CreatedAt     time.Time
}

func (s *Store) ListPendingMoves(ctx context.Context, tenantID, sessionID string) ([]PendingMove, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.first_name || ' ' || e.last_name,
           COALESCE(a.new_quadrant, ''), a.justification, a.created_by, a.created_at
    FROM calibration_adjustments a
    JOIN calibration_sessions s ON a.session_id = s.id
    JOIN calibration_ratings r ON a.rating_id = r.id
    JOIN employees e ON r.employee_id = e.id
    WHERE s.tenant_id = $1 AND a.session_id = $2 AND a.status IN ('pending', 'sealed')
    ORDER BY a.created_at, a.id
  `, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []PendingMove
	for rows.Next() {
		var m PendingMove
		if err := rows.Scan(&m.EmployeeName, &m.TargetQuad, &m.Justification, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
