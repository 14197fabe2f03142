// Package visits keeps per-path visit counters in SQLite and serves the
// public counters summary.
package visits

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/presence-project/presence/internal/store"
	"go.uber.org/zap"
)

// dayFormat is how days are stored. Lexicographic order matches date order,
// so range queries stay plain string comparisons.
const dayFormat = "2006-01-02"

// migrations holds the visits schema, applied through the shared migration
// runner under the "visits" component key.
var migrations = []store.Migration{
	{
		Version:     1,
		Description: "create visits table",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS visits (
					path  TEXT    NOT NULL,
					day   TEXT    NOT NULL,
					count INTEGER NOT NULL DEFAULT 0,
					PRIMARY KEY (path, day)
				)
			`)
			return err
		},
	},
}

// Service records visits and aggregates rollups.
type Service struct {
	store     *store.SQLiteStore
	retention int // days to keep per-day rows; 0 keeps everything
	interval  time.Duration
	logger    *zap.Logger
}

// NewService creates a visits Service on the shared SQLite store.
func NewService(st *store.SQLiteStore, retentionDays int, sweepInterval time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:     st,
		retention: retentionDays,
		interval:  sweepInterval,
		logger:    logger,
	}
}

// Migrate applies the visits schema.
func (s *Service) Migrate(ctx context.Context) error {
	return s.store.Migrate(ctx, "visits", migrations)
}

// Record counts one visit for the path on the current UTC day.
func (s *Service) Record(ctx context.Context, path string) error {
	day := time.Now().UTC().Format(dayFormat)
	_, err := s.store.DB().ExecContext(ctx, `
		INSERT INTO visits (path, day, count) VALUES (?, ?, 1)
		ON CONFLICT (path, day) DO UPDATE SET count = count + 1
	`, path, day)
	if err != nil {
		return fmt.Errorf("record visit %q: %w", path, err)
	}
	return nil
}

// Summary is the public rollup of visit counters.
type Summary struct {
	Today int64            `json:"today"`
	Week  int64            `json:"week"`  // last 7 days including today
	Month int64            `json:"month"` // last 30 days
	Year  int64            `json:"year"`  // last 365 days
	Total int64            `json:"total"`
	Paths map[string]int64 `json:"paths"` // all-time per path
}

// Summary aggregates the counters.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	now := time.Now().UTC()
	out := Summary{Paths: make(map[string]int64)}

	windows := []struct {
		since string
		dest  *int64
	}{
		{now.Format(dayFormat), &out.Today},
		{now.AddDate(0, 0, -6).Format(dayFormat), &out.Week},
		{now.AddDate(0, 0, -29).Format(dayFormat), &out.Month},
		{now.AddDate(0, 0, -364).Format(dayFormat), &out.Year},
	}
	for _, w := range windows {
		err := s.store.DB().QueryRowContext(ctx,
			"SELECT COALESCE(SUM(count), 0) FROM visits WHERE day >= ?", w.since,
		).Scan(w.dest)
		if err != nil {
			return Summary{}, fmt.Errorf("sum visits since %s: %w", w.since, err)
		}
	}

	if err := s.store.DB().QueryRowContext(ctx,
		"SELECT COALESCE(SUM(count), 0) FROM visits",
	).Scan(&out.Total); err != nil {
		return Summary{}, fmt.Errorf("sum total visits: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx,
		"SELECT path, SUM(count) FROM visits GROUP BY path",
	)
	if err != nil {
		return Summary{}, fmt.Errorf("sum visits per path: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		var count int64
		if err := rows.Scan(&path, &count); err != nil {
			return Summary{}, fmt.Errorf("scan visit row: %w", err)
		}
		out.Paths[path] = count
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate visit rows: %w", err)
	}

	return out, nil
}

// Sweep deletes per-day rows older than the retention window. Returns the
// number of rows removed. A zero retention disables sweeping.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retention).Format(dayFormat)
	res, err := s.store.DB().ExecContext(ctx, "DELETE FROM visits WHERE day < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep visits before %s: %w", cutoff, err)
	}
	return res.RowsAffected()
}

// Run sweeps on the configured interval until ctx is cancelled. Intended to
// run as a background goroutine from main.
func (s *Service) Run(ctx context.Context) {
	if s.retention <= 0 || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("visit sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("swept old visit rows", zap.Int64("removed", removed))
			}
		}
	}
}

// skipPrefixes are paths that never count as visits: probes, scrape targets,
// static assets, and the long-lived streams.
var skipPrefixes = []string{
	"/healthz",
	"/readyz",
	"/metrics",
	"/assets/",
	"/swagger/",
	"/favicon.ico",
	"/api/v1/events",
}

// Middleware records GET requests as visits after serving them. Recording is
// best effort: a failed insert never fails the request.
func (s *Service) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if r.Method != http.MethodGet {
				return
			}
			for _, p := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					return
				}
			}
			if err := s.Record(r.Context(), r.URL.Path); err != nil {
				s.logger.Debug("failed to record visit", zap.Error(err))
			}
		})
	}
}
