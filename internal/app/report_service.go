package app

import (
	"context"

	"carbontrack/internal/domain"
)

// ReportService encapsulates trend and comparison queries over the record
// store.
type ReportService struct {
	records domain.RecordRepository
}

// NewReportService creates a ReportService backed by the given repository.
func NewReportService(records domain.RecordRepository) *ReportService {
	return &ReportService{records: records}
}

// DailyTotals returns per-day footprint sums for one user, most recent day
// first. Multiple records on the same day are summed, not averaged.
func (s *ReportService) DailyTotals(ctx context.Context, username string) ([]domain.DayTotal, error) {
	return s.records.DailyTotals(ctx, username)
}

// GlobalAverage returns the mean total across all records from all users,
// used as a comparison baseline. Returns 0 when no records exist.
func (s *ReportService) GlobalAverage(ctx context.Context) (float64, error) {
	return s.records.GlobalAverage(ctx)
}

// ListRecent returns the most recent raw records for a user up to limit.
func (s *ReportService) ListRecent(ctx context.Context, username string, limit int) ([]domain.EmissionRecord, error) {
	return s.records.ListRecentRecords(ctx, username, limit)
}
