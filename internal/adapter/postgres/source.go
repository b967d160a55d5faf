// Package postgres reads the earthquake catalog from PostgreSQL. The catalog
// is populated by the ingestion service; this adapter only runs the daily
// aggregation the forecast window is built from.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/tremorline/quake-forecast-service/internal/domain"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	connectTimeout  = 10 * time.Second
)

// dailyAggregateQuery folds the event catalog into one row per calendar day.
// Days with no events produce no row; gap filling happens downstream.
const dailyAggregateQuery = `
	SELECT DATE(time) AS date,
	       COUNT(*) AS count,
	       AVG(magnitude) AS avg_magnitude,
	       MAX(magnitude) AS max_magnitude
	FROM earthquakes
	WHERE time >= $1 AND time <= $2
	GROUP BY DATE(time)
	ORDER BY date`

// Source reads daily aggregates from the catalog database.
// It implements forecast.SeriesSource.
type Source struct {
	db     *sql.DB
	logger *slog.Logger
}

// Connect opens a pooled connection to the catalog database and verifies it
// with a ping before returning.
func Connect(ctx context.Context, databaseURL string, logger *slog.Logger) (*Source, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging catalog database: %w", err)
	}

	return &Source{db: db, logger: logger}, nil
}

// DailyAggregates returns one row per day with at least one event, covering
// the trailing window ending now.
func (s *Source) DailyAggregates(ctx context.Context, windowDays int) ([]domain.DailyAggregate, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)

	rows, err := s.db.QueryContext(ctx, dailyAggregateQuery, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying daily aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []domain.DailyAggregate
	for rows.Next() {
		var (
			agg    domain.DailyAggregate
			avgMag sql.NullFloat64
			maxMag sql.NullFloat64
		)
		if err := rows.Scan(&agg.Date, &agg.Count, &avgMag, &maxMag); err != nil {
			return nil, fmt.Errorf("scanning daily aggregate: %w", err)
		}
		if avgMag.Valid {
			v := avgMag.Float64
			agg.AvgMagnitude = &v
		}
		if maxMag.Valid {
			v := maxMag.Float64
			agg.MaxMagnitude = &v
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading daily aggregates: %w", err)
	}

	s.logger.Debug("loaded daily aggregates", "rows", len(aggregates), "window_days", windowDays)
	return aggregates, nil
}

// CheckReadiness reports whether the catalog database is reachable.
func (s *Source) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Source) Close() error {
	return s.db.Close()
}
