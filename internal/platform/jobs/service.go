package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"talentgrid/internal/domain/calibration"
	"talentgrid/internal/platform/config"
)

const (
	JobSessionRefresh = "calibration_session_refresh"
)

// Service drives the polling model: active sessions are re-fetched and
// re-reconciled on a fixed interval. Reconciliation is stateless and
// idempotent, so a tick that overlaps an on-demand refresh is harmless.
type Service struct {
	DB          *pgxpool.Pool
	Cfg         config.Config
	Calibration *calibration.Service
	queue       chan job
}

type job struct {
	Type      string
	SessionID string
	Run       func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, cal *calibration.Service) *Service {
	return &Service{
		DB:          db,
		Cfg:         cfg,
		Calibration: cal,
		queue:       make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.SessionPollEvery > 0 {
		go s.scheduleSessionRefresh(ctx, s.Cfg.SessionPollEvery)
	}
}

func (s *Service) Enqueue(jobType, sessionID string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, SessionID: sessionID, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType, "sessionId", sessionID)
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "sessionId", j.SessionID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (session_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.SessionID, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) scheduleSessionRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions, err := s.listActiveSessions(ctx)
			if err != nil {
				slog.Warn("session refresh scheduler lookup failed", "err", err)
				continue
			}
			for _, session := range sessions {
				sess := session
				s.Enqueue(JobSessionRefresh, sess.id, func(ctx context.Context) (any, error) {
					snap, err := s.Calibration.RefreshSession(ctx, sess.tenantID, sess.id)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"employees":        snap.Stats.Total,
						"pendingChanges":   snap.Stats.ChangedCount,
						"pendingPotential": snap.Stats.PendingPotential,
					}, nil
				})
			}
		}
	}
}

type activeSession struct {
	id       string
	tenantID string
}

func (s *Service) listActiveSessions(ctx context.Context) ([]activeSession, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, tenant_id FROM calibration_sessions WHERE status = 'active'
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []activeSession
	for rows.Next() {
		var sess activeSession
		if err := rows.Scan(&sess.id, &sess.tenantID); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}
