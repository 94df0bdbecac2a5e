package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	"carbontrack/internal/domain"
)

// AppendRecord inserts a new emission record. Records are append-only; there
// are no update or delete statements for this table. Returns
// domain.ErrUnknownUser when the username has no users row.
func (d *DB) AppendRecord(ctx context.Context, username, day string, total float64, breakdown domain.Breakdown) (int64, error) {
	blob, err := json.Marshal(breakdown)
	if err != nil {
		return 0, err
	}

	var id int64
	err = d.sql.QueryRowContext(ctx,
		"INSERT INTO emission_records(username, day, total, breakdown, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id;",
		username, day, total, blob, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return 0, domain.ErrUnknownUser
		}
		return 0, err
	}
	return id, nil
}

// ListRecentRecords returns the most recent emission records up to limit for
// a user.
func (d *DB) ListRecentRecords(ctx context.Context, username string, limit int) ([]domain.EmissionRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, day, total, breakdown, created_at FROM emission_records WHERE username=$1 ORDER BY created_at DESC LIMIT $2;",
		username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.EmissionRecord, 0, limit)
	for rows.Next() {
		var (
			rec  domain.EmissionRecord
			day  time.Time
			blob []byte
		)
		if err := rows.Scan(&rec.ID, &day, &rec.Total, &blob, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &rec.Breakdown); err != nil {
			return nil, err
		}
		rec.Username = username
		rec.Day = day.Format("2006-01-02")
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DailyTotals returns (day, SUM(total)) for one user grouped by day,
// descending by day. The sum reads the total column, never the breakdown.
func (d *DB) DailyTotals(ctx context.Context, username string) ([]domain.DayTotal, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT day, SUM(total) FROM emission_records WHERE username=$1 GROUP BY day ORDER BY day DESC;",
		username)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.DayTotal
	for rows.Next() {
		var (
			day time.Time
			dt  domain.DayTotal
		)
		if err := rows.Scan(&day, &dt.Total); err != nil {
			return nil, err
		}
		dt.Day = day.Format("2006-01-02")
		out = append(out, dt)
	}
	return out, rows.Err()
}

// GlobalAverage returns the mean total across all records from all users,
// or 0 when no records exist.
func (d *DB) GlobalAverage(ctx context.Context) (float64, error) {
	var avg float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(total), 0) FROM emission_records;",
	).Scan(&avg)
	return avg, err
}
