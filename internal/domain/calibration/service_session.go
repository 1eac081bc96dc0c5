package calibration

import (
	"context"
	"strings"
)

// MoveResult reports an accepted move: the created adjustment and the
// validation verdict that accompanied it.
type MoveResult struct {
	AdjustmentID string           `json:"adjustmentId"`
	Validation   ValidationResult `json:"validation"`
}

// LoadSession fetches session, participants, ratings and adjustments and
// reconciles them into a fresh snapshot. Ratings are cached for subsequent
// poll refreshes.
func (s *Service) LoadSession(ctx context.Context, tenantID, sessionID string) (Snapshot, error) {
	session, err := s.store.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	ratings, err := s.store.ListRatings(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.reconcileInto(ctx, session, ratings, participants)
}

// RefreshSession re-fetches session and adjustments (ratings come from the
// per-session cache) and re-runs reconciliation in full. It is invoked on
// every poll tick and after every successful action.
func (s *Service) RefreshSession(ctx context.Context, tenantID, sessionID string) (Snapshot, error) {
	ratings, ok := s.cachedRatings(sessionID)
	if !ok {
		return s.LoadSession(ctx, tenantID, sessionID)
	}
	session, err := s.store.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	return s.reconcileInto(ctx, session, ratings, participants)
}

func (s *Service) reconcileInto(ctx context.Context, session Session, ratings []Rating, participants []Participant) (Snapshot, error) {
	adjustments, err := s.store.ListAdjustments(ctx, session.TenantID, session.ID)
	if err != nil {
		return Snapshot{}, err
	}
	employees := s.reconciler.Reconcile(ratings, adjustments)
	snap := Snapshot{
		Session:     session,
		Employees:   employees,
		Stats:       s.reconciler.Stats(employees, s.bonus),
		RefreshedAt: now(),
	}
	s.storeSnapshot(session.ID, snap, ratings, participants)
	return snap, nil
}

// Participants returns the cached participant list for a loaded session.
func (s *Service) Participants(sessionID string) []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participants[sessionID]
}

func (s *Service) effectiveEmployee(ctx context.Context, tenantID, sessionID, employeeID string) (EffectiveEmployee, Snapshot, error) {
	snap, ok := s.Snapshot(tenantID, sessionID)
	if !ok {
		var err error
		snap, err = s.LoadSession(ctx, tenantID, sessionID)
		if err != nil {
			return EffectiveEmployee{}, Snapshot{}, err
		}
	}
	for _, e := range snap.Employees {
		if e.EmployeeID == employeeID || e.RatingID == employeeID {
			return e, snap, nil
		}
	}
	return EffectiveEmployee{}, snap, ErrRatingNotFound
}

// ValidateMove previews the verdict for a proposed move without touching
// any state. The UI calls this before collecting a justification.
func (s *Service) ValidateMove(ctx context.Context, tenantID, sessionID, employeeID, targetQuadrant string) (ValidationResult, error) {
	if _, ok := s.quadrants.Position(targetQuadrant); !ok {
		return ValidationResult{}, ErrUnknownQuadrant
	}
	employee, _, err := s.effectiveEmployee(ctx, tenantID, sessionID, employeeID)
	if err != nil {
		return ValidationResult{}, err
	}
	return s.rules.ValidateMove(employee, targetQuadrant), nil
}

// MoveEmployee executes a grid move: authorization, validation, minimal
// override computation and adjustment submission, then a full refresh.
// Nothing is mutated locally before the store confirms.
func (s *Service) MoveEmployee(ctx context.Context, tenantID, sessionID, actorEmail, employeeID, targetQuadrant, justification string) (MoveResult, error) {
	if strings.TrimSpace(justification) == "" {
		return MoveResult{}, ErrJustificationRequired
	}
	if _, ok := s.quadrants.Position(targetQuadrant); !ok {
		return MoveResult{}, ErrUnknownQuadrant
	}

	// The gate reads the store, not the cached snapshot: a session closed
	// since the last poll must reject immediately.
	session, err := s.store.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return MoveResult{}, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return MoveResult{}, err
	}
	if IsReadOnly(session, s.RoleFor(participants, actorEmail)) {
		return MoveResult{}, ErrSessionReadOnly
	}

	employee, _, err := s.effectiveEmployee(ctx, tenantID, sessionID, employeeID)
	if err != nil {
		return MoveResult{}, err
	}

	validation := s.rules.ValidateMove(employee, targetQuadrant)

	adj := s.buildAdjustment(employee, targetQuadrant, justification, actorEmail)
	adjustmentID, err := s.store.CreateAdjustment(ctx, sessionID, adj)
	if err != nil {
		return MoveResult{}, err
	}

	if _, err := s.RefreshSession(ctx, tenantID, sessionID); err != nil {
		return MoveResult{}, err
	}
	return MoveResult{AdjustmentID: adjustmentID, Validation: validation}, nil
}

// buildAdjustment computes the minimal override set for a coarse quadrant
// move: a precise score is only written for an axis whose effective level
// actually changes, so an unchanged axis keeps its original value.
// Potential additionally defaults to the target anchor when the employee
// never had one.
func (s *Service) buildAdjustment(employee EffectiveEmployee, targetQuadrant, justification, actorEmail string) Adjustment {
	target, _ := s.quadrants.Position(targetQuadrant)
	anchors, _ := s.quadrants.Representative(targetQuadrant)

	adj := Adjustment{
		RatingID:      employee.RatingID,
		Justification: justification,
		Status:        AdjustmentStatusPending,
		CreatedBy:     actorEmail,
		NewQuadrant:   &targetQuadrant,
	}

	targetPerfLevel := levelName(target.PerformanceCol)
	if employee.EffectiveLevel != targetPerfLevel {
		score := anchors.Performance
		adj.NewFinalScore = &score
		adj.NewLevel = &targetPerfLevel
	}

	targetPotLevel := levelName(target.PotentialRow)
	switch {
	case employee.PotentialScore == nil:
		potential := anchors.Potential
		adj.NewPotentialScore = &potential
	case s.thresholds.Classify(*employee.PotentialScore) != targetPotLevel:
		potential := anchors.Potential
		adj.NewPotentialScore = &potential
	}

	return adj
}

func levelName(index int) string {
	switch index {
	case 1:
		return LevelLow
	case 3:
		return LevelHigh
	default:
		return LevelMedium
	}
}

// StartSession transitions a draft session to active and loads its data.
func (s *Service) StartSession(ctx context.Context, tenantID, sessionID, actorEmail string) (Snapshot, error) {
	session, err := s.store.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	if !CanEdit(s.RoleFor(participants, actorEmail)) {
		return Snapshot{}, ErrSessionReadOnly
	}
	if session.Status != SessionStatusDraft {
		return Snapshot{}, ErrSessionNotDraft
	}
	if err := s.store.UpdateSessionStatus(ctx, tenantID, sessionID, SessionStatusActive); err != nil {
		return Snapshot{}, err
	}
	return s.LoadSession(ctx, tenantID, sessionID)
}

// CloseSession seals the pending adjustment set and refreshes so every
// viewer sees the frozen state.
func (s *Service) CloseSession(ctx context.Context, tenantID, sessionID, actorEmail string) (Snapshot, int, error) {
	session, err := s.store.GetSession(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	if s.RoleFor(participants, actorEmail) != RoleFacilitator {
		return Snapshot{}, 0, ErrSessionReadOnly
	}
	if session.Status == SessionStatusClosed {
		return Snapshot{}, 0, ErrSessionAlreadyClosed
	}
	if err := s.store.UpdateSessionStatus(ctx, tenantID, sessionID, SessionStatusClosed); err != nil {
		return Snapshot{}, 0, err
	}
	sealed, err := s.store.SealPendingAdjustments(ctx, sessionID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	snap, err := s.RefreshSession(ctx, tenantID, sessionID)
	if err != nil {
		return Snapshot{}, 0, err
	}
	return snap, sealed, nil
}
