package calibration

import (
	"fmt"
	"strings"
)

const (
	DirectionUpgrade   = "upgrade"
	DirectionDowngrade = "downgrade"
	DirectionLateral   = "lateral"

	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"

	FactorAspiration = "aspiration"
	FactorAbility    = "ability"
	FactorEngagement = "engagement"

	factorMax = 3

	RiskMoveToRiskQuadrant = "MOVE_TO_RISK_QUADRANT"
	RiskTopTalentLowEngage = "TOP_TALENT_LOW_ENGAGEMENT"
	RiskMassiveJump        = "MASSIVE_JUMP"
	RiskMissingAAEData     = "MISSING_AAE_DATA"
)

const (
	massiveJumpDistance = 3
	lowEngagementValue  = 1
	highPotentialRow    = 3
)

// AAEProfile is the minimum aspiration/ability/engagement profile a
// quadrant demands.
type AAEProfile struct {
	Aspiration int
	Ability    int
	Engagement int
}

// ProfileGap records one factor below the target quadrant's requirement
// (upgrade) or one maxed factor put at risk (downgrade).
type ProfileGap struct {
	Factor   string `json:"factor"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
	Deficit  int    `json:"deficit"`
	Message  string `json:"message"`
}

// SpecificRisk is the single matched business-risk rule, if any.
type SpecificRisk struct {
	RuleID         string `json:"ruleId"`
	Severity       string `json:"severity"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation"`
}

// ValidationResult classifies a proposed move. The engine never blocks:
// IsValid is always true and HasWarning tells the caller whether a
// confirmation dialog is needed.
type ValidationResult struct {
	IsValid        bool          `json:"isValid"`
	HasWarning     bool          `json:"hasWarning"`
	Direction      string        `json:"direction"`
	Severity       string        `json:"severity"`
	ProfileGaps    []ProfileGap  `json:"profileGaps"`
	Risk           *SpecificRisk `json:"risk,omitempty"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
}

// RulesConfig carries every tunable table of the engine so tests can
// substitute alternate profiles without touching engine code.
type RulesConfig struct {
	Profiles map[string]AAEProfile
}

func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		Profiles: map[string]AAEProfile{
			"q1": {Aspiration: 1, Ability: 1, Engagement: 1},
			"q2": {Aspiration: 1, Ability: 1, Engagement: 2},
			"q3": {Aspiration: 1, Ability: 2, Engagement: 2},
			"q4": {Aspiration: 2, Ability: 1, Engagement: 1},
			"q5": {Aspiration: 1, Ability: 1, Engagement: 1},
			"q6": {Aspiration: 1, Ability: 2, Engagement: 2},
			"q7": {Aspiration: 2, Ability: 1, Engagement: 2},
			"q8": {Aspiration: 2, Ability: 2, Engagement: 2},
			"q9": {Aspiration: 2, Ability: 2, Engagement: 2},
		},
	}
}

// RulesEngine runs the two-layer move validation: AAE profile-gap analysis
// and priority-ordered specific business risks.
type RulesEngine struct {
	quadrants *QuadrantMap
	config    RulesConfig
}

func NewRulesEngine(q *QuadrantMap, cfg RulesConfig) *RulesEngine {
	return &RulesEngine{quadrants: q, config: cfg}
}

var factorNames = map[string]string{
	FactorAspiration: "Aspiração",
	FactorAbility:    "Capacidade",
	FactorEngagement: "Engajamento",
}

// ValidateMove is pure and total; incomplete AAE data is a modeled state,
// never an error.
func (e *RulesEngine) ValidateMove(employee EffectiveEmployee, targetQuadrant string) ValidationResult {
	direction := e.direction(employee.EffectiveQuadrant, targetQuadrant)

	var gaps []ProfileGap
	switch direction {
	case DirectionUpgrade:
		gaps = e.upgradeGaps(employee, targetQuadrant)
	case DirectionDowngrade:
		gaps = e.downgradeGaps(employee)
	}

	risk := e.matchRisk(employee, targetQuadrant)

	result := ValidationResult{
		IsValid:     true,
		Direction:   direction,
		ProfileGaps: gaps,
		Risk:        risk,
		Severity:    SeverityInfo,
	}
	if len(gaps) == 0 && risk == nil {
		return result
	}

	result.HasWarning = true
	result.Severity = moreSevere(gapSeverity(len(gaps)), riskSeverity(risk))
	result.Title, result.Message, result.Recommendation = e.compose(direction, gaps, risk)
	return result
}

func (e *RulesEngine) direction(fromID, toID string) string {
	from, okFrom := e.quadrants.Position(fromID)
	to, okTo := e.quadrants.Position(toID)
	if !okFrom || !okTo {
		return DirectionLateral
	}
	if to.PotentialRow > from.PotentialRow || to.PerformanceCol > from.PerformanceCol {
		return DirectionUpgrade
	}
	if to.PotentialRow < from.PotentialRow || to.PerformanceCol < from.PerformanceCol {
		return DirectionDowngrade
	}
	return DirectionLateral
}

func hasAnyFactor(e EffectiveEmployee) bool {
	return e.AspirationFactor != nil || e.AbilityFactor != nil || e.EngagementFactor != nil
}

func (e *RulesEngine) upgradeGaps(employee EffectiveEmployee, targetQuadrant string) []ProfileGap {
	if !hasAnyFactor(employee) {
		// Nothing measured; the missing-data risk rule covers this.
		return nil
	}
	profile, ok := e.config.Profiles[targetQuadrant]
	if !ok {
		return nil
	}

	var gaps []ProfileGap
	check := func(factor string, current *int, required int) {
		if current == nil || *current >= required {
			return
		}
		gaps = append(gaps, ProfileGap{
			Factor:   factor,
			Current:  *current,
			Required: required,
			Deficit:  required - *current,
			Message:  fmt.Sprintf("%s atual %d, mínimo exigido %d", factorNames[factor], *current, required),
		})
	}
	check(FactorAspiration, employee.AspirationFactor, profile.Aspiration)
	check(FactorAbility, employee.AbilityFactor, profile.Ability)
	check(FactorEngagement, employee.EngagementFactor, profile.Engagement)
	return gaps
}

// downgradeGaps protects strong signals: a factor already at its maximum
// is flagged as at risk of being wasted, independent of the target's
// requirements.
func (e *RulesEngine) downgradeGaps(employee EffectiveEmployee) []ProfileGap {
	if !hasAnyFactor(employee) {
		return nil
	}
	var gaps []ProfileGap
	check := func(factor string, current *int) {
		if current == nil || *current < factorMax {
			return
		}
		gaps = append(gaps, ProfileGap{
			Factor:   factor,
			Current:  *current,
			Required: factorMax,
			Message:  fmt.Sprintf("%s no nível máximo (%d): risco de desmotivação ao rebaixar", factorNames[factor], *current),
		})
	}
	check(FactorAspiration, employee.AspirationFactor)
	check(FactorAbility, employee.AbilityFactor)
	check(FactorEngagement, employee.EngagementFactor)
	return gaps
}

// matchRisk evaluates the specific business-risk rules in fixed priority
// order; the first match wins and at most one risk is attached.
func (e *RulesEngine) matchRisk(employee EffectiveEmployee, targetQuadrant string) *SpecificRisk {
	if targetQuadrant == QuadrantRisk && employee.EffectiveQuadrant != QuadrantRisk {
		return &SpecificRisk{
			RuleID:         RiskMoveToRiskQuadrant,
			Severity:       SeverityCritical,
			Title:          "Movimentação para Quadrante de Risco",
			Message:        "O colaborador será movido para o quadrante de menor desempenho e menor potencial.",
			Recommendation: "Confirme se há um plano de ação estruturado antes de concluir esta movimentação.",
		}
	}

	if targetQuadrant == QuadrantStar && employee.EngagementFactor != nil && *employee.EngagementFactor == lowEngagementValue {
		return &SpecificRisk{
			RuleID:         RiskTopTalentLowEngage,
			Severity:       SeverityCritical,
			Title:          "Talento Top com Baixo Engajamento",
			Message:        "Engajamento no nível mínimo: risco de perda do colaborador após a promoção ao quadrante estrela.",
			Recommendation: "Trate o engajamento antes de posicionar como talento top.",
		}
	}

	if e.quadrants.Distance(employee.EffectiveQuadrant, targetQuadrant) >= massiveJumpDistance {
		return &SpecificRisk{
			RuleID:         RiskMassiveJump,
			Severity:       SeverityWarning,
			Title:          "Movimentação Muito Ampla",
			Message:        "A movimentação atravessa três ou mais posições da matriz em um único passo.",
			Recommendation: "Valide com evidências recentes; saltos amplos costumam indicar recalibração de critérios.",
		}
	}

	if pos, ok := e.quadrants.Position(targetQuadrant); ok && pos.PotentialRow == highPotentialRow {
		missing := missingFactors(employee)
		if len(missing) > 0 {
			return &SpecificRisk{
				RuleID:         RiskMissingAAEData,
				Severity:       SeverityInfo,
				Title:          "Dados AAE Incompletos",
				Message:        fmt.Sprintf("Fatores sem avaliação: %s.", strings.Join(missing, ", ")),
				Recommendation: "Complete a avaliação AAE para sustentar o posicionamento em alto potencial.",
			}
		}
	}

	return nil
}

func missingFactors(e EffectiveEmployee) []string {
	var missing []string
	if e.AspirationFactor == nil {
		missing = append(missing, factorNames[FactorAspiration])
	}
	if e.AbilityFactor == nil {
		missing = append(missing, factorNames[FactorAbility])
	}
	if e.EngagementFactor == nil {
		missing = append(missing, factorNames[FactorEngagement])
	}
	return missing
}

func gapSeverity(gapCount int) string {
	switch {
	case gapCount >= 2:
		return SeverityCritical
	case gapCount == 1:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func riskSeverity(risk *SpecificRisk) string {
	if risk == nil {
		return SeverityInfo
	}
	return risk.Severity
}

var severityOrder = []string{SeverityCritical, SeverityWarning, SeverityInfo}

func moreSevere(a, b string) string {
	for _, s := range severityOrder {
		if a == s || b == s {
			return s
		}
	}
	return SeverityInfo
}

func gapList(gaps []ProfileGap) string {
	var b strings.Builder
	for _, gap := range gaps {
		b.WriteString("\n• ")
		b.WriteString(gap.Message)
	}
	return b.String()
}

func gapTitle(direction string) string {
	if direction == DirectionDowngrade {
		return "Indicadores Fortes em Risco"
	}
	return "Perfil AAE Insuficiente"
}

// compose builds the combined narrative. A critical specific risk always
// leads, but coexisting profile gaps keep their headline alongside it;
// gap narratives are direction-specific; a lone risk speaks verbatim.
func (e *RulesEngine) compose(direction string, gaps []ProfileGap, risk *SpecificRisk) (title, message, recommendation string) {
	if risk != nil && risk.Severity == SeverityCritical {
		title = risk.Title
		message = risk.Message
		if len(gaps) > 0 {
			title += " / " + gapTitle(direction)
			message += gapList(gaps)
		}
		return title, message, risk.Recommendation
	}

	if len(gaps) > 0 {
		recommendation = "Registre uma justificativa detalhada para esta movimentação."
		if risk != nil && risk.Recommendation != "" {
			recommendation = risk.Recommendation
		}
		if direction == DirectionDowngrade {
			return gapTitle(direction),
				"O rebaixamento atinge fatores no nível máximo:" + gapList(gaps),
				recommendation
		}
		return gapTitle(direction),
			"O perfil comportamental não atende aos mínimos do quadrante de destino:" + gapList(gaps),
			recommendation
	}

	if risk != nil {
		return risk.Title, risk.Message, risk.Recommendation
	}

	return "Justificativa Necessária",
		"Esta movimentação requer justificativa do revisor.",
		"Registre o racional da decisão antes de confirmar."
}
