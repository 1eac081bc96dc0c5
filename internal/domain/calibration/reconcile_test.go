package calibration

import (
	"reflect"
	"testing"
	"time"
)

func newTestReconciler() *Reconciler {
	thresholds := DefaultThresholds()
	return NewReconciler(thresholds, NewQuadrantMap(thresholds))
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func baseRating() Rating {
	return Rating{
		ID:              "r1",
		EmployeeID:      "e1",
		EmployeeName:    "Ana Souza",
		CalculatedScore: 3.2,
		CalculatedLevel: LevelMedium,
		CalculatedQuad:  "q5",
		PotentialScore:  floatPtr(3.0),
	}
}

func TestReconcileWithoutAdjustments(t *testing.T) {
	r := newTestReconciler()

	employees := r.Reconcile([]Rating{baseRating()}, nil)
	if len(employees) != 1 {
		t.Fatalf("expected 1 employee, got %d", len(employees))
	}
	e := employees[0]
	if e.HasChanged {
		t.Fatal("expected hasChanged false without adjustments")
	}
	if e.EffectiveScore != 3.2 {
		t.Fatalf("expected effective score 3.2, got %v", e.EffectiveScore)
	}
	if e.EffectiveQuadrant != "q5" {
		t.Fatalf("expected q5, got %s", e.EffectiveQuadrant)
	}
	if e.IsPendingPotential {
		t.Fatal("expected pending potential false when rating has potential")
	}
	if e.StatusBucket != BucketCore {
		t.Fatalf("expected CORE bucket, got %s", e.StatusBucket)
	}
}

func TestReconcileEffectivePrecedence(t *testing.T) {
	r := newTestReconciler()

	rating := baseRating()
	rating.FinalScore = floatPtr(3.8)

	// No adjustment: rating final score wins over the calculated one.
	employees := r.Reconcile([]Rating{rating}, nil)
	if employees[0].EffectiveScore != 3.8 {
		t.Fatalf("expected final score 3.8, got %v", employees[0].EffectiveScore)
	}

	// Pending adjustment overrides everything.
	adj := Adjustment{
		ID:            "a1",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.5),
		NewQuadrant:   strPtr("q9"),
		Status:        AdjustmentStatusPending,
	}
	employees = r.Reconcile([]Rating{rating}, []Adjustment{adj})
	e := employees[0]
	if e.EffectiveScore != 4.5 {
		t.Fatalf("expected adjusted score 4.5, got %v", e.EffectiveScore)
	}
	if e.EffectiveQuadrant != "q9" {
		t.Fatalf("expected adjusted quadrant q9, got %s", e.EffectiveQuadrant)
	}
	if !e.HasChanged {
		t.Fatal("expected hasChanged with a pending adjustment")
	}
	if e.CalculatedScore != 3.2 || e.CalculatedQuadrant != "q5" {
		t.Fatal("calculated values must remain untouched")
	}
}

func TestReconcileIgnoresNonPending(t *testing.T) {
	r := newTestReconciler()

	adj := Adjustment{
		ID:            "a1",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.5),
		Status:        AdjustmentStatusRejected,
	}
	employees := r.Reconcile([]Rating{baseRating()}, []Adjustment{adj})
	if employees[0].HasChanged {
		t.Fatal("rejected adjustments must not change the effective view")
	}
	if employees[0].EffectiveScore != 3.2 {
		t.Fatalf("expected original score, got %v", employees[0].EffectiveScore)
	}
}

func TestReconcileFirstPendingMatchWins(t *testing.T) {
	r := newTestReconciler()

	older := Adjustment{
		ID:            "a1",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.1),
		Status:        AdjustmentStatusPending,
		CreatedAt:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	newer := Adjustment{
		ID:            "a2",
		RatingID:      "r1",
		NewFinalScore: floatPtr(1.2),
		Status:        AdjustmentStatusPending,
		CreatedAt:     time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
	}

	employees := r.Reconcile([]Rating{baseRating()}, []Adjustment{older, newer})
	if employees[0].EffectiveScore != 4.1 {
		t.Fatalf("expected the first pending adjustment to win, got %v", employees[0].EffectiveScore)
	}
	if employees[0].AdjustmentID != "a1" {
		t.Fatalf("expected adjustment a1, got %s", employees[0].AdjustmentID)
	}
}

func TestReconcilePendingPotential(t *testing.T) {
	r := newTestReconciler()

	rating := baseRating()
	rating.PotentialScore = nil

	employees := r.Reconcile([]Rating{rating}, nil)
	if !employees[0].IsPendingPotential {
		t.Fatal("expected pending potential when nobody supplied one")
	}

	adj := Adjustment{
		ID:                "a1",
		RatingID:          "r1",
		NewPotentialScore: floatPtr(4.5),
		Status:            AdjustmentStatusPending,
	}
	employees = r.Reconcile([]Rating{rating}, []Adjustment{adj})
	if employees[0].IsPendingPotential {
		t.Fatal("adjustment-supplied potential clears the pending flag")
	}
	if employees[0].PotentialScore == nil || *employees[0].PotentialScore != 4.5 {
		t.Fatal("expected effective potential 4.5")
	}
}

func TestReconcileDerivesMissingQuadrant(t *testing.T) {
	r := newTestReconciler()

	rating := baseRating()
	rating.CalculatedQuad = ""
	rating.CalculatedScore = 4.5
	rating.PotentialScore = floatPtr(4.5)

	employees := r.Reconcile([]Rating{rating}, nil)
	if employees[0].EffectiveQuadrant != "q9" {
		t.Fatalf("expected derived q9, got %s", employees[0].EffectiveQuadrant)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	r := newTestReconciler()

	ratings := []Rating{baseRating()}
	adjustments := []Adjustment{{
		ID:            "a1",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.2),
		Status:        AdjustmentStatusPending,
	}}

	first := r.Reconcile(ratings, adjustments)
	second := r.Reconcile(ratings, adjustments)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("reconciliation must be idempotent for identical inputs")
	}
}

type staticBonus struct{ value float64 }

func (b staticBonus) BonusFactor([]EffectiveEmployee) float64 { return b.value }

func TestStats(t *testing.T) {
	r := newTestReconciler()

	withPotential := baseRating()
	noPotential := baseRating()
	noPotential.ID = "r2"
	noPotential.EmployeeID = "e2"
	noPotential.PotentialScore = nil

	adjustments := []Adjustment{{
		ID:            "a1",
		RatingID:      "r1",
		NewFinalScore: floatPtr(4.2),
		Status:        AdjustmentStatusPending,
	}}

	employees := r.Reconcile([]Rating{withPotential, noPotential}, adjustments)
	stats := r.Stats(employees, staticBonus{value: 1.7})

	if stats.Total != 2 {
		t.Fatalf("expected total 2, got %d", stats.Total)
	}
	if len(stats.AssignedPotentials) != 1 {
		t.Fatalf("expected 1 assigned potential, got %d", len(stats.AssignedPotentials))
	}
	if stats.ChangedCount != 1 {
		t.Fatalf("expected 1 changed, got %d", stats.ChangedCount)
	}
	if stats.PendingPotential != 1 {
		t.Fatalf("expected 1 pending potential, got %d", stats.PendingPotential)
	}
	if stats.BonusFactor != 1.7 {
		t.Fatalf("expected bonus factor from the collaborator, got %v", stats.BonusFactor)
	}
}
