package calibration

import (
	"strings"
	"testing"
)

func newTestEngine() *RulesEngine {
	return NewRulesEngine(NewQuadrantMap(DefaultThresholds()), DefaultRulesConfig())
}

func employeeAt(quadrant string) EffectiveEmployee {
	return EffectiveEmployee{
		RatingID:          "r1",
		EmployeeID:        "e1",
		EffectiveQuadrant: quadrant,
		EffectiveLevel:    LevelMedium,
	}
}

func TestUpgradeWithInsufficientProfile(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(1)
	employee.AbilityFactor = intPtr(1)
	employee.EngagementFactor = intPtr(1)

	result := e.ValidateMove(employee, "q9")
	if !result.IsValid {
		t.Fatal("the engine never blocks a move")
	}
	if result.Direction != DirectionUpgrade {
		t.Fatalf("expected upgrade, got %s", result.Direction)
	}
	if len(result.ProfileGaps) != 3 {
		t.Fatalf("expected 3 gaps, got %d", len(result.ProfileGaps))
	}
	if result.Severity != SeverityCritical {
		t.Fatalf("expected critical severity, got %s", result.Severity)
	}
	if !strings.Contains(result.Title, "Perfil AAE Insuficiente") {
		t.Fatalf("unexpected title %q", result.Title)
	}
	for _, gap := range result.ProfileGaps {
		if gap.Deficit != gap.Required-gap.Current {
			t.Fatalf("bad deficit in gap %+v", gap)
		}
	}
}

func TestUpgradeSkipsSufficientAndAbsentFactors(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(3)
	employee.EngagementFactor = intPtr(1)
	// ability absent: not a gap

	result := e.ValidateMove(employee, "q9")
	if len(result.ProfileGaps) != 1 {
		t.Fatalf("expected only the engagement gap, got %d", len(result.ProfileGaps))
	}
	if result.ProfileGaps[0].Factor != FactorEngagement {
		t.Fatalf("expected engagement gap, got %s", result.ProfileGaps[0].Factor)
	}
}

func TestDowngradeFlagsMaxedFactors(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q9")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(2)
	employee.EngagementFactor = intPtr(3)

	result := e.ValidateMove(employee, "q5")
	if result.Direction != DirectionDowngrade {
		t.Fatalf("expected downgrade, got %s", result.Direction)
	}
	if len(result.ProfileGaps) != 2 {
		t.Fatalf("expected 2 protected factors, got %d", len(result.ProfileGaps))
	}
	if !strings.Contains(result.Title, "Indicadores Fortes") {
		t.Fatalf("unexpected title %q", result.Title)
	}
}

func TestLateralMoveSkipsGapAnalysis(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(1)
	employee.AbilityFactor = intPtr(1)
	employee.EngagementFactor = intPtr(1)

	result := e.ValidateMove(employee, "q5")
	if result.Direction != DirectionLateral {
		t.Fatalf("expected lateral, got %s", result.Direction)
	}
	if len(result.ProfileGaps) != 0 {
		t.Fatalf("lateral moves never produce gaps, got %d", len(result.ProfileGaps))
	}
	if result.HasWarning {
		t.Fatal("expected clean lateral result")
	}
}

func TestNoFactorsSkipsGapLayer(t *testing.T) {
	e := newTestEngine()

	result := e.ValidateMove(employeeAt("q5"), "q6")
	if len(result.ProfileGaps) != 0 {
		t.Fatal("gap analysis requires at least one measured factor")
	}
	// q6 is not a high-potential target, so no missing-data risk either.
	if result.HasWarning {
		t.Fatalf("expected clean result, got %+v", result)
	}
}

func TestMoveToRiskQuadrant(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(3)
	employee.EngagementFactor = intPtr(3)

	result := e.ValidateMove(employee, "q1")
	if result.Risk == nil || result.Risk.RuleID != RiskMoveToRiskQuadrant {
		t.Fatalf("expected MOVE_TO_RISK_QUADRANT, got %+v", result.Risk)
	}
	if result.Severity != SeverityCritical {
		t.Fatalf("expected critical, got %s", result.Severity)
	}
	// Already in q1: the rule does not fire again.
	again := e.ValidateMove(employeeAt("q1"), "q1")
	if again.Risk != nil {
		t.Fatalf("expected no risk for identity move into q1, got %+v", again.Risk)
	}
}

func TestTopTalentLowEngagement(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q8")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(3)
	employee.EngagementFactor = intPtr(1)

	result := e.ValidateMove(employee, "q9")
	if result.Risk == nil || result.Risk.RuleID != RiskTopTalentLowEngage {
		t.Fatalf("expected TOP_TALENT_LOW_ENGAGEMENT, got %+v", result.Risk)
	}
	if result.Severity != SeverityCritical {
		t.Fatalf("expected critical, got %s", result.Severity)
	}
}

func TestMassiveJump(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q1")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(3)
	employee.EngagementFactor = intPtr(3)

	result := e.ValidateMove(employee, "q9")
	if result.Risk == nil || result.Risk.RuleID != RiskMassiveJump {
		t.Fatalf("expected MASSIVE_JUMP, got %+v", result.Risk)
	}
	if result.Risk.Severity != SeverityWarning {
		t.Fatalf("expected warning risk severity, got %s", result.Risk.Severity)
	}
}

func TestHigherPriorityRulePreemptsMassiveJump(t *testing.T) {
	e := newTestEngine()

	// q1 -> q9 is distance 4, but low engagement matches first.
	employee := employeeAt("q1")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(3)
	employee.EngagementFactor = intPtr(1)

	result := e.ValidateMove(employee, "q9")
	if result.Risk == nil || result.Risk.RuleID != RiskTopTalentLowEngage {
		t.Fatalf("expected the higher-priority rule, got %+v", result.Risk)
	}
}

func TestMissingAAEDataOnHighPotentialTarget(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(2)
	employee.AbilityFactor = intPtr(2)
	// engagement absent

	result := e.ValidateMove(employee, "q8")
	if result.Risk == nil || result.Risk.RuleID != RiskMissingAAEData {
		t.Fatalf("expected MISSING_AAE_DATA, got %+v", result.Risk)
	}
	if !strings.Contains(result.Risk.Message, "Engajamento") {
		t.Fatalf("message must list the missing factor, got %q", result.Risk.Message)
	}
}

func TestSeverityMonotonicity(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(3)
	employee.AbilityFactor = intPtr(3)
	employee.EngagementFactor = intPtr(1)

	one := e.ValidateMove(employee, "q8")
	if len(one.ProfileGaps) != 1 || one.Severity != SeverityWarning {
		t.Fatalf("expected single-gap warning, got %d gaps, %s", len(one.ProfileGaps), one.Severity)
	}

	employee.AbilityFactor = intPtr(1)
	two := e.ValidateMove(employee, "q8")
	if len(two.ProfileGaps) != 2 || two.Severity != SeverityCritical {
		t.Fatalf("expected two-gap critical, got %d gaps, %s", len(two.ProfileGaps), two.Severity)
	}
}

func TestCriticalRiskLeadsMessageWithGapsAppended(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q8")
	employee.AspirationFactor = intPtr(1)
	employee.AbilityFactor = intPtr(1)
	employee.EngagementFactor = intPtr(1)

	result := e.ValidateMove(employee, "q9")
	if result.Risk == nil || result.Risk.RuleID != RiskTopTalentLowEngage {
		t.Fatalf("expected the critical risk, got %+v", result.Risk)
	}
	if !strings.HasPrefix(result.Title, result.Risk.Title) {
		t.Fatalf("critical risk title must lead, got %q", result.Title)
	}
	if !strings.Contains(result.Title, "Perfil AAE Insuficiente") {
		t.Fatalf("coexisting gaps must keep their headline, got %q", result.Title)
	}
	if len(result.ProfileGaps) == 0 || !strings.Contains(result.Message, "•") {
		t.Fatal("expected the gap list appended to the risk message")
	}
}

func TestCleanMoveHasNoWarning(t *testing.T) {
	e := newTestEngine()

	employee := employeeAt("q5")
	employee.AspirationFactor = intPtr(2)
	employee.AbilityFactor = intPtr(2)
	employee.EngagementFactor = intPtr(2)

	result := e.ValidateMove(employee, "q6")
	if result.HasWarning {
		t.Fatalf("expected no warning, got %+v", result)
	}
	if !result.IsValid {
		t.Fatal("clean result is still valid")
	}
	if result.Severity != SeverityInfo {
		t.Fatalf("clean result carries info severity, got %s", result.Severity)
	}
	if result.Title != "" || result.Message != "" {
		t.Fatal("clean result has empty narrative")
	}
}
