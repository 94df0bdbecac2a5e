package app

import (
	"context"
	"testing"

	"carbontrack/internal/domain"
)

func TestReportService_DailyTotals(t *testing.T) {
	want := []domain.DayTotal{
		{Day: "2026-08-29", Total: 12.5},
		{Day: "2026-08-28", Total: 3.2},
	}
	records := &mockRecordRepo{
		dailyFn: func(ctx context.Context, username string) ([]domain.DayTotal, error) {
			if username != "alice" {
				t.Errorf("username = %q, want alice", username)
			}
			return want, nil
		},
	}

	svc := NewReportService(records)
	got, err := svc.DailyTotals(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestReportService_GlobalAverage(t *testing.T) {
	records := &mockRecordRepo{
		averageFn: func(ctx context.Context) (float64, error) {
			return 4.75, nil
		},
	}

	svc := NewReportService(records)
	got, err := svc.GlobalAverage(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 4.75 {
		t.Errorf("got %v, want 4.75", got)
	}
}
