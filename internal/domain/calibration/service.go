package calibration

import (
	"context"
	"sync"
	"time"
)

// Service orchestrates session state for consumers: it owns the in-memory
// reconciled snapshots, gates actions on participant roles, and turns
// grid moves into minimal adjustment requests.
type Service struct {
	store      StoreAPI
	thresholds Thresholds
	quadrants  *QuadrantMap
	reconciler *Reconciler
	rules      *RulesEngine
	bonus      BonusCalculator

	mu        sync.RWMutex
	snapshots map[string]Snapshot
	// ratings are fetched once per session load and reused on poll
	// refreshes; an explicit reload replaces them.
	ratings      map[string][]Rating
	participants map[string][]Participant
}

func NewService(store StoreAPI, thresholds Thresholds, rulesCfg RulesConfig, bonus BonusCalculator) *Service {
	quadrants := NewQuadrantMap(thresholds)
	return &Service{
		store:        store,
		thresholds:   thresholds,
		quadrants:    quadrants,
		reconciler:   NewReconciler(thresholds, quadrants),
		rules:        NewRulesEngine(quadrants, rulesCfg),
		bonus:        bonus,
		snapshots:    make(map[string]Snapshot),
		ratings:      make(map[string][]Rating),
		participants: make(map[string][]Participant),
	}
}

func (s *Service) Quadrants() *QuadrantMap {
	return s.quadrants
}

func (s *Service) Ratings(ctx context.Context, tenantID, sessionID string) ([]Rating, error) {
	return s.store.ListRatings(ctx, tenantID, sessionID)
}

func (s *Service) Adjustments(ctx context.Context, tenantID, sessionID string) ([]Adjustment, error) {
	return s.store.ListAdjustments(ctx, tenantID, sessionID)
}

// Snapshot returns the last reconciled view of a session, if one has been
// loaded for the caller's tenant. The returned value is a copy; consumers
// must treat the employee list as read-only.
func (s *Service) Snapshot(tenantID, sessionID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	if !ok || snap.Session.TenantID != tenantID {
		return Snapshot{}, false
	}
	return snap, true
}

func (s *Service) cachedRatings(sessionID string) ([]Rating, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ratings, ok := s.ratings[sessionID]
	return ratings, ok
}

func (s *Service) storeSnapshot(sessionID string, snap Snapshot, ratings []Rating, participants []Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[sessionID] = snap
	s.ratings[sessionID] = ratings
	s.participants[sessionID] = participants
}

// RoleFor resolves the caller's role from the session participant list by
// email. Non-participants get no role.
func (s *Service) RoleFor(participants []Participant, email string) string {
	for _, p := range participants {
		if p.Email == email {
			return p.Role
		}
	}
	return ""
}

func CanEdit(role string) bool {
	return role == RoleFacilitator || role == RoleReviewer
}

// IsReadOnly is the single gate for every state-mutating action: a closed
// session is read-only for everyone, an open one for anybody without an
// editing role.
func IsReadOnly(session Session, role string) bool {
	return session.Status == SessionStatusClosed || !CanEdit(role)
}

func now() time.Time {
	return time.Now().UTC()
}
