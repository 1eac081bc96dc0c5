package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"talentgrid/internal/domain/calibration"
)

type Service struct {
	Store       *Store
	Calibration *calibration.Service
	ReportDir   string
}

func NewService(store *Store, cal *calibration.Service, reportDir string) *Service {
	return &Service{Store: store, Calibration: cal, ReportDir: reportDir}
}

// Summary is the session overview consumed by dashboards and the PDF.
type Summary struct {
	SessionID        string         `json:"sessionId"`
	SessionName      string         `json:"sessionName"`
	Status           string         `json:"status"`
	QuadrantCounts   map[string]int `json:"quadrantCounts"`
	BucketCounts     map[string]int `json:"bucketCounts"`
	Total            int            `json:"total"`
	ChangedCount     int            `json:"changedCount"`
	PendingPotential int            `json:"pendingPotentialCount"`
	BonusFactor      float64        `json:"bonusFactor"`
}

// SessionSummary derives the grid distribution from the reconciled
// snapshot, so pending moves are already overlaid.
func (s *Service) SessionSummary(ctx context.Context, tenantID, sessionID string) (Summary, error) {
	snap, ok := s.Calibration.Snapshot(tenantID, sessionID)
	if !ok {
		var err error
		snap, err = s.Calibration.LoadSession(ctx, tenantID, sessionID)
		if err != nil {
			return Summary{}, err
		}
	}

	summary := Summary{
		SessionID:        snap.Session.ID,
		SessionName:      snap.Session.Name,
		Status:           snap.Session.Status,
		QuadrantCounts:   map[string]int{},
		BucketCounts:     map[string]int{},
		Total:            snap.Stats.Total,
		ChangedCount:     snap.Stats.ChangedCount,
		PendingPotential: snap.Stats.PendingPotential,
		BonusFactor:      snap.Stats.BonusFactor,
	}
	for _, e := range snap.Employees {
		summary.QuadrantCounts[e.EffectiveQuadrant]++
		summary.BucketCounts[e.StatusBucket]++
	}
	return summary, nil
}

// GenerateSessionPDF writes the calibration report to disk and returns its
// path.
func (s *Service) GenerateSessionPDF(ctx context.Context, tenantID, sessionID string) (string, error) {
	summary, err := s.SessionSummary(ctx, tenantID, sessionID)
	if err != nil {
		return "", err
	}
	moves, err := s.Store.ListPendingMoves(ctx, tenantID, sessionID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.ReportDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.ReportDir, sessionID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Calibration Session Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Session: %s (%s)", summary.SessionName, summary.Status))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employees: %d  Pending moves: %d  Pending potential: %d",
		summary.Total, summary.ChangedCount, summary.PendingPotential))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Bonus factor: %.2f", summary.BonusFactor))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Grid distribution")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	quadrants := make([]string, 0, len(summary.QuadrantCounts))
	for q := range summary.QuadrantCounts {
		quadrants = append(quadrants, q)
	}
	sort.Strings(quadrants)
	for _, q := range quadrants {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", q, summary.QuadrantCounts[q]))
		pdf.Ln(6)
	}

	if len(moves) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, "Proposed moves")
		pdf.Ln(9)
		pdf.SetFont("Helvetica", "", 11)
		for _, m := range moves {
			pdf.MultiCell(0, 6, fmt.Sprintf("%s -> %s (%s): %s",
				m.EmployeeName, m.TargetQuad, m.CreatedBy, m.Justification), "", "L", false)
			pdf.Ln(1)
		}
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
