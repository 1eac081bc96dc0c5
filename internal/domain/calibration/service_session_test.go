package calibration

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	session      Session
	participants []Participant
	ratings      []Rating
	adjustments  []Adjustment

	createErr     error
	sealedCount   int
	statusUpdates []string
}

func (f *fakeStore) GetSession(ctx context.Context, tenantID, sessionID string) (Session, error) {
	if f.session.ID == "" || f.session.TenantID != tenantID {
		return Session{}, ErrSessionNotFound
	}
	return f.session, nil
}

func (f *fakeStore) ListParticipants(ctx context.Context, sessionID string) ([]Participant, error) {
	return f.participants, nil
}

func (f *fakeStore) UpdateSessionStatus(ctx context.Context, tenantID, sessionID, status string) error {
	f.session.Status = status
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeStore) ListRatings(ctx context.Context, tenantID, sessionID string) ([]Rating, error) {
	return f.ratings, nil
}

func (f *fakeStore) ListAdjustments(ctx context.Context, tenantID, sessionID string) ([]Adjustment, error) {
	if f.session.TenantID != tenantID {
		return nil, nil
	}
	return f.adjustments, nil
}

func (f *fakeStore) CreateAdjustment(ctx context.Context, sessionID string, adj Adjustment) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	adj.ID = "a1"
	adj.CreatedAt = time.Now()
	f.adjustments = append(f.adjustments, adj)
	return adj.ID, nil
}

func (f *fakeStore) SealPendingAdjustments(ctx context.Context, sessionID string) (int, error) {
	for i := range f.adjustments {
		if f.adjustments[i].Status == AdjustmentStatusPending {
			f.adjustments[i].Status = AdjustmentStatusSealed
			f.sealedCount++
		}
	}
	return f.sealedCount, nil
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, DefaultThresholds(), DefaultRulesConfig(), staticBonus{value: 1.0})
}

func activeStore() *fakeStore {
	rating := baseRating()
	rating.AspirationFactor = intPtr(2)
	rating.AbilityFactor = intPtr(2)
	rating.EngagementFactor = intPtr(2)
	return &fakeStore{
		session: Session{ID: "s1", TenantID: "t1", Name: "Q3 Calibration", Status: SessionStatusActive},
		participants: []Participant{
			{SessionID: "s1", Email: "facilitator@example.com", Role: RoleFacilitator},
			{SessionID: "s1", Email: "reviewer@example.com", Role: RoleReviewer},
			{SessionID: "s1", Email: "observer@example.com", Role: RoleObserver},
		},
		ratings: []Rating{rating},
	}
}

func TestMoveEmployeeCreatesMinimalAdjustment(t *testing.T) {
	store := activeStore()
	svc := newTestService(store)

	result, err := svc.MoveEmployee(context.Background(), "t1", "s1", "reviewer@example.com", "e1", "q6", "desempenho consistente acima da média")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AdjustmentID != "a1" {
		t.Fatalf("expected adjustment id, got %q", result.AdjustmentID)
	}

	if len(store.adjustments) != 1 {
		t.Fatalf("expected 1 stored adjustment, got %d", len(store.adjustments))
	}
	adj := store.adjustments[0]
	if adj.Status != AdjustmentStatusPending {
		t.Fatalf("expected pending status, got %s", adj.Status)
	}
	if adj.NewQuadrant == nil || *adj.NewQuadrant != "q6" {
		t.Fatal("expected target quadrant recorded")
	}
	// q5 -> q6 raises the performance axis only: potential stays medium,
	// so only the performance score is overridden.
	if adj.NewFinalScore == nil || *adj.NewFinalScore != 4.5 {
		t.Fatalf("expected performance anchor 4.5, got %v", adj.NewFinalScore)
	}
	if adj.NewPotentialScore != nil {
		t.Fatalf("unchanged potential axis must not be overridden, got %v", *adj.NewPotentialScore)
	}

	// The snapshot refreshed after the action.
	snap, ok := svc.Snapshot("t1", "s1")
	if !ok {
		t.Fatal("expected a snapshot after the move")
	}
	if !snap.Employees[0].HasChanged {
		t.Fatal("expected the reconciled employee to show the pending move")
	}
}

func TestMoveEmployeeDefaultsMissingPotential(t *testing.T) {
	store := activeStore()
	store.ratings[0].PotentialScore = nil
	svc := newTestService(store)

	_, err := svc.MoveEmployee(context.Background(), "t1", "s1", "reviewer@example.com", "e1", "q6", "ajuste de calibração")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	adj := store.adjustments[0]
	if adj.NewPotentialScore == nil || *adj.NewPotentialScore != 3.5 {
		t.Fatalf("expected potential anchor 3.5 for employee without one, got %v", adj.NewPotentialScore)
	}
}

func TestMoveEmployeeRequiresJustification(t *testing.T) {
	svc := newTestService(activeStore())

	_, err := svc.MoveEmployee(context.Background(), "t1", "s1", "reviewer@example.com", "e1", "q6", "   ")
	if !errors.Is(err, ErrJustificationRequired) {
		t.Fatalf("expected ErrJustificationRequired, got %v", err)
	}
}

func TestMoveEmployeeReadOnlyGates(t *testing.T) {
	store := activeStore()
	svc := newTestService(store)

	// Observers cannot move.
	_, err := svc.MoveEmployee(context.Background(), "t1", "s1", "observer@example.com", "e1", "q6", "justificativa")
	if !errors.Is(err, ErrSessionReadOnly) {
		t.Fatalf("expected ErrSessionReadOnly for observer, got %v", err)
	}

	// Closed sessions are read-only for everyone.
	store.session.Status = SessionStatusClosed
	_, err = svc.MoveEmployee(context.Background(), "t1", "s1", "facilitator@example.com", "e1", "q6", "justificativa")
	if !errors.Is(err, ErrSessionReadOnly) {
		t.Fatalf("expected ErrSessionReadOnly for closed session, got %v", err)
	}
	if len(store.adjustments) != 0 {
		t.Fatal("no adjustment may be created when the gate rejects")
	}
}

func TestMoveEmployeeSurfacesStoreFailure(t *testing.T) {
	store := activeStore()
	store.createErr = errors.New("boom")
	svc := newTestService(store)

	if _, err := svc.LoadSession(context.Background(), "t1", "s1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	before, _ := svc.Snapshot("t1", "s1")

	_, err := svc.MoveEmployee(context.Background(), "t1", "s1", "reviewer@example.com", "e1", "q6", "justificativa")
	if err == nil {
		t.Fatal("expected the store failure to surface")
	}

	after, _ := svc.Snapshot("t1", "s1")
	if len(after.Employees) != len(before.Employees) || after.Employees[0].HasChanged {
		t.Fatal("reconciled state must stay untouched on failure")
	}
}

func TestValidateMoveUnknownQuadrant(t *testing.T) {
	svc := newTestService(activeStore())

	if _, err := svc.ValidateMove(context.Background(), "t1", "s1", "e1", "q42"); !errors.Is(err, ErrUnknownQuadrant) {
		t.Fatalf("expected ErrUnknownQuadrant, got %v", err)
	}
	if _, err := svc.ValidateMove(context.Background(), "t1", "s1", "missing", "q6"); !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("expected ErrRatingNotFound, got %v", err)
	}
}

func TestStartSession(t *testing.T) {
	store := activeStore()
	store.session.Status = SessionStatusDraft
	svc := newTestService(store)

	snap, err := svc.StartSession(context.Background(), "t1", "s1", "facilitator@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Session.Status != SessionStatusActive {
		t.Fatalf("expected active session, got %s", snap.Session.Status)
	}

	if _, err := svc.StartSession(context.Background(), "t1", "s1", "facilitator@example.com"); !errors.Is(err, ErrSessionNotDraft) {
		t.Fatalf("expected ErrSessionNotDraft on restart, got %v", err)
	}
}

func TestCloseSessionSealsPending(t *testing.T) {
	store := activeStore()
	store.adjustments = []Adjustment{{
		ID:            "a0",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.2),
		Status:        AdjustmentStatusPending,
		CreatedAt:     time.Now(),
	}}
	svc := newTestService(store)

	snap, sealed, err := svc.CloseSession(context.Background(), "t1", "s1", "facilitator@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sealed != 1 {
		t.Fatalf("expected 1 sealed adjustment, got %d", sealed)
	}
	if snap.Session.Status != SessionStatusClosed {
		t.Fatalf("expected closed session, got %s", snap.Session.Status)
	}
	if snap.Employees[0].HasChanged {
		t.Fatal("sealed adjustments no longer count as pending changes")
	}

	if _, _, err := svc.CloseSession(context.Background(), "t1", "s1", "facilitator@example.com"); !errors.Is(err, ErrSessionAlreadyClosed) {
		t.Fatalf("expected ErrSessionAlreadyClosed, got %v", err)
	}
	if _, _, err := svc.CloseSession(context.Background(), "t1", "s1", "reviewer@example.com"); err == nil {
		t.Fatal("only the facilitator closes a session")
	}
}

func TestReadsScopedToTenant(t *testing.T) {
	store := activeStore()
	store.adjustments = []Adjustment{{
		ID:            "a0",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.2),
		Status:        AdjustmentStatusPending,
		CreatedAt:     time.Now(),
	}}
	svc := newTestService(store)

	if _, err := svc.LoadSession(context.Background(), "t1", "s1"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// A cached snapshot is invisible to other tenants.
	if _, ok := svc.Snapshot("t2", "s1"); ok {
		t.Fatal("snapshot must not leak across tenants")
	}
	if _, ok := svc.Snapshot("t1", "s1"); !ok {
		t.Fatal("expected the owning tenant to see its snapshot")
	}

	adjustments, err := svc.Adjustments(context.Background(), "t2", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adjustments) != 0 {
		t.Fatal("adjustments must not leak across tenants")
	}

	if _, err := svc.LoadSession(context.Background(), "t2", "s1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for a foreign tenant, got %v", err)
	}
}

func TestRoleResolution(t *testing.T) {
	svc := newTestService(activeStore())

	participants := []Participant{{Email: "x@example.com", Role: RoleReviewer}}
	if role := svc.RoleFor(participants, "x@example.com"); role != RoleReviewer {
		t.Fatalf("expected reviewer, got %q", role)
	}
	if role := svc.RoleFor(participants, "y@example.com"); role != "" {
		t.Fatalf("expected no role for outsiders, got %q", role)
	}
	if CanEdit(RoleObserver) {
		t.Fatal("observers cannot edit")
	}
	if !CanEdit(RoleFacilitator) || !CanEdit(RoleReviewer) {
		t.Fatal("facilitators and reviewers can edit")
	}
}
