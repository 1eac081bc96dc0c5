package calibration

import "context"

// StoreAPI is the persistence boundary of the calibration domain.
//
// ListAdjustments must return rows in a stable order (created_at, then id):
// reconciliation resolves concurrent pending adjustments for the same
// rating by taking the first match, and that choice has to be identical
// for every viewer on every poll.
type StoreAPI interface {
	GetSession(ctx context.Context, tenantID, sessionID string) (Session, error)
	ListParticipants(ctx context.Context, sessionID string) ([]Participant, error)
	UpdateSessionStatus(ctx context.Context, tenantID, sessionID, status string) error

	ListRatings(ctx context.Context, tenantID, sessionID string) ([]Rating, error)

	ListAdjustments(ctx context.Context, tenantID, sessionID string) ([]Adjustment, error)
	CreateAdjustment(ctx context.Context, sessionID string, adj Adjustment) (string, error)
	SealPendingAdjustments(ctx context.Context, sessionID string) (int, error)
}
