package calibration

// BonusCalculator aggregates a session-level bonus factor over the
// reconciled list. Its internals are owned by the host platform.
type BonusCalculator interface {
	BonusFactor(employees []EffectiveEmployee) float64
}

// Reconciler merges authoritative ratings with pending adjustments into
// effective employees. It holds no state beyond its injected tables and is
// safe to re-run on every poll tick.
type Reconciler struct {
	thresholds Thresholds
	quadrants  *QuadrantMap
}

func NewReconciler(t Thresholds, q *QuadrantMap) *Reconciler {
	return &Reconciler{thresholds: t, quadrants: q}
}

// firstNonAbsent resolves the override-or-default chain used for every
// effective field: adjustment value, then rating value, then the rating's
// calculated fallback.
func firstNonAbsent(adjustment, rating *float64, fallback float64) float64 {
	if adjustment != nil {
		return *adjustment
	}
	if rating != nil {
		return *rating
	}
	return fallback
}

// Reconcile is pure and total: every rating yields exactly one effective
// employee, however incomplete its data. Callers relying on the
// first-match-wins rule must hand adjustments in a stable order (the store
// orders by creation time, then id).
func (r *Reconciler) Reconcile(ratings []Rating, adjustments []Adjustment) []EffectiveEmployee {
	pendingByRating := make(map[string]*Adjustment, len(adjustments))
	for i := range adjustments {
		adj := &adjustments[i]
		if adj.Status != AdjustmentStatusPending {
			continue
		}
		if _, taken := pendingByRating[adj.RatingID]; taken {
			continue
		}
		pendingByRating[adj.RatingID] = adj
	}

	employees := make([]EffectiveEmployee, 0, len(ratings))
	for _, rating := range ratings {
		adj := pendingByRating[rating.ID]

		employee := EffectiveEmployee{
			RatingID:           rating.ID,
			EmployeeID:         rating.EmployeeID,
			EmployeeName:       rating.EmployeeName,
			CalculatedScore:    rating.CalculatedScore,
			CalculatedLevel:    rating.CalculatedLevel,
			CalculatedQuadrant: rating.CalculatedQuad,
			HasChanged:         adj != nil,
			AspirationFactor:   rating.AspirationFactor,
			AbilityFactor:      rating.AbilityFactor,
			EngagementFactor:   rating.EngagementFactor,
		}

		var adjScore, adjPotential *float64
		var adjLevel, adjQuadrant *string
		if adj != nil {
			employee.AdjustmentID = adj.ID
			adjScore = adj.NewFinalScore
			adjPotential = adj.NewPotentialScore
			adjLevel = adj.NewLevel
			adjQuadrant = adj.NewQuadrant
		}

		employee.EffectiveScore = firstNonAbsent(adjScore, rating.FinalScore, rating.CalculatedScore)

		if adjPotential != nil {
			v := *adjPotential
			employee.PotentialScore = &v
		} else if rating.PotentialScore != nil {
			v := *rating.PotentialScore
			employee.PotentialScore = &v
		}

		switch {
		case adjLevel != nil:
			employee.EffectiveLevel = *adjLevel
		case rating.CalculatedLevel != "":
			employee.EffectiveLevel = rating.CalculatedLevel
		default:
			employee.EffectiveLevel = r.thresholds.Classify(employee.EffectiveScore)
		}

		switch {
		case adjQuadrant != nil:
			employee.EffectiveQuadrant = *adjQuadrant
		case rating.CalculatedQuad != "":
			employee.EffectiveQuadrant = rating.CalculatedQuad
		default:
			potential := employee.EffectiveScore
			if employee.PotentialScore != nil {
				potential = *employee.PotentialScore
			}
			employee.EffectiveQuadrant = r.quadrants.DeriveQuadrant(employee.EffectiveScore, potential)
		}

		employee.StatusBucket = r.quadrants.Bucket(employee.EffectiveQuadrant)
		employee.IsPendingPotential = rating.PotentialScore == nil && employee.PotentialScore == nil

		employees = append(employees, employee)
	}
	return employees
}

// Stats recomputes session statistics from scratch to avoid drift between
// polls.
func (r *Reconciler) Stats(employees []EffectiveEmployee, bonus BonusCalculator) SessionStats {
	stats := SessionStats{
		Total:              len(employees),
		AssignedPotentials: []float64{},
	}
	for _, e := range employees {
		if e.PotentialScore != nil {
			stats.AssignedPotentials = append(stats.AssignedPotentials, *e.PotentialScore)
		}
		if e.HasChanged {
			stats.ChangedCount++
		}
		if e.IsPendingPotential {
			stats.PendingPotential++
		}
	}
	if bonus != nil {
		stats.BonusFactor = bonus.BonusFactor(employees)
	}
	return stats
}
