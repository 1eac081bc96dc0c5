package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"talentgrid/internal/domain/auth"
	"talentgrid/internal/domain/calibration"
	"talentgrid/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	tenantID, err := ensureTenant(ctx, pool, cfg.SeedTenantName)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureUser(ctx, pool, tenantID, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleHR); err != nil {
			return err
		}
	}

	if cfg.Environment == "development" {
		return seedDemoSession(ctx, pool, tenantID, cfg.SeedAdminEmail)
	}
	return nil
}

func ensureTenant(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, "INSERT INTO tenants (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, tenantID, email, password, role string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (tenant_id, email, password_hash, role_name, status)
    VALUES ($1,$2,$3,$4,'active')
  `, tenantID, email, hash, role)
	return err
}

// seedDemoSession creates one draft session with a small grid so a fresh
// development environment has something to calibrate.
func seedDemoSession(ctx context.Context, pool *pgxpool.Pool, tenantID, facilitatorEmail string) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM calibration_sessions WHERE tenant_id = $1", tenantID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	var sessionID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO calibration_sessions (tenant_id, name, status)
    VALUES ($1, 'Demo Calibration', $2)
    RETURNING id
  `, tenantID, calibration.SessionStatusDraft).Scan(&sessionID); err != nil {
		return err
	}

	if facilitatorEmail != "" {
		if _, err := pool.Exec(ctx, `
      INSERT INTO calibration_participants (session_id, email, role)
      VALUES ($1,$2,$3)
    `, sessionID, facilitatorEmail, calibration.RoleFacilitator); err != nil {
			return err
		}
	}

	type demoEmployee struct {
		first, last string
		score       float64
		level       string
		quadrant    string
		potential   *float64
		asp, ab, en *int
	}
	two := 2
	one := 1
	three := 3
	pot := func(v float64) *float64 { return &v }
	employees := []demoEmployee{
		{first: "Ana", last: "Souza", score: 3.4, level: calibration.LevelMedium, quadrant: "q5", potential: pot(3.2), asp: &two, ab: &two, en: &two},
		{first: "Bruno", last: "Lima", score: 4.6, level: calibration.LevelHigh, quadrant: "q9", potential: pot(4.4), asp: &three, ab: &three, en: &one},
		{first: "Carla", last: "Nunes", score: 1.8, level: calibration.LevelLow, quadrant: "q1", potential: pot(1.6), asp: &one, ab: &one, en: &one},
		{first: "Diego", last: "Alves", score: 3.1, level: calibration.LevelMedium, quadrant: "q5"},
	}

	for _, e := range employees {
		var employeeID string
		if err := pool.QueryRow(ctx, `
      INSERT INTO employees (tenant_id, first_name, last_name)
      VALUES ($1,$2,$3)
      RETURNING id
    `, tenantID, e.first, e.last).Scan(&employeeID); err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO calibration_ratings
        (tenant_id, session_id, employee_id, calculated_score, calculated_level,
         calculated_quadrant, potential_score, aspiration, ability, engagement)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    `, tenantID, sessionID, employeeID, e.score, e.level, e.quadrant, e.potential, e.asp, e.ab, e.en); err != nil {
			return err
		}
	}
	return nil
}
