package calibration

import "time"

type Session struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenantId"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	CurrentUserEmail string    `json:"currentUserEmail,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type Participant struct {
	SessionID string `json:"sessionId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// Rating is the authoritative evaluation of one employee; it is immutable
// for the lifetime of a session. Pointer fields may be absent.
type Rating struct {
	ID               string   `json:"id"`
	EmployeeID       string   `json:"employeeId"`
	EmployeeName     string   `json:"employeeName"`
	CalculatedScore  float64  `json:"calculatedScore"`
	CalculatedLevel  string   `json:"calculatedLevel"`
	CalculatedQuad   string   `json:"calculatedQuadrant"`
	FinalScore       *float64 `json:"finalScore,omitempty"`
	PotentialScore   *float64 `json:"potentialScore,omitempty"`
	AspirationFactor *int     `json:"aspiration,omitempty"`
	AbilityFactor    *int     `json:"ability,omitempty"`
	EngagementFactor *int     `json:"engagement,omitempty"`
}

// Adjustment proposes overrides to a single rating. Only pending
// adjustments participate in reconciliation.
type Adjustment struct {
	ID                string    `json:"id"`
	RatingID          string    `json:"ratingId"`
	NewFinalScore     *float64  `json:"newFinalScore,omitempty"`
	NewPotentialScore *float64  `json:"newPotentialScore,omitempty"`
	NewLevel          *string   `json:"newLevel,omitempty"`
	NewQuadrant       *string   `json:"newQuadrant,omitempty"`
	Justification     string    `json:"justification"`
	Status            string    `json:"status"`
	CreatedBy         string    `json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
}

// EffectiveEmployee is the reconciled view of one rating with at most one
// pending adjustment overlaid. It is recomputed on every pass and never
// stored.
type EffectiveEmployee struct {
	RatingID           string   `json:"ratingId"`
	EmployeeID         string   `json:"employeeId"`
	EmployeeName       string   `json:"employeeName"`
	CalculatedScore    float64  `json:"calculatedScore"`
	CalculatedLevel    string   `json:"calculatedLevel"`
	CalculatedQuadrant string   `json:"calculatedQuadrant"`
	EffectiveScore     float64  `json:"effectiveScore"`
	EffectiveLevel     string   `json:"effectiveLevel"`
	EffectiveQuadrant  string   `json:"effectiveQuadrant"`
	PotentialScore     *float64 `json:"potentialScore,omitempty"`
	StatusBucket       string   `json:"statusBucket"`
	HasChanged         bool     `json:"hasChanged"`
	IsPendingPotential bool     `json:"isPendingPotential"`
	AdjustmentID       string   `json:"adjustmentId,omitempty"`
	AspirationFactor   *int     `json:"aspiration,omitempty"`
	AbilityFactor      *int     `json:"ability,omitempty"`
	EngagementFactor   *int     `json:"engagement,omitempty"`
}

// SessionStats is recomputed from the reconciled list on every refresh;
// nothing here is updated incrementally.
type SessionStats struct {
	Total              int       `json:"total"`
	AssignedPotentials []float64 `json:"assignedPotentials"`
	ChangedCount       int       `json:"changedCount"`
	PendingPotential   int       `json:"pendingPotentialCount"`
	BonusFactor        float64   `json:"bonusFactor"`
}

type Snapshot struct {
	Session     Session             `json:"session"`
	Employees   []EffectiveEmployee `json:"employees"`
	Stats       SessionStats        `json:"stats"`
	RefreshedAt time.Time           `json:"refreshedAt"`
}
