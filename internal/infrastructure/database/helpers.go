package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"vcard-backend/internal/shared/metrics"
)

var errPoolNotInitialized = errors.New("database pool is not initialized")

// Ping với timeout 5s
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return errPoolNotInitialized
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close đóng pool, gọi nhiều lần vẫn an toàn
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}
	db.Pool.Close()
	db.Pool = nil
	log.Info().Msg("database pool closed")
	return nil
}

// PoolStats là snapshot của pgxpool.Stat
type PoolStats struct {
	AcquireCount    int64         `json:"acquire_count"`
	AcquireDuration time.Duration `json:"acquire_duration"`
	AcquiredConns   int32         `json:"acquired_conns"`
	IdleConns       int32         `json:"idle_conns"`
	MaxConns        int32         `json:"max_conns"`
	TotalConns      int32         `json:"total_conns"`
}

func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}

// Utilization là tỉ lệ conns đang bị giữ trên MaxConns, 0..1
func (s *PoolStats) Utilization() float64 {
	if s.MaxConns <= 0 {
		return 0
	}
	return float64(s.AcquiredConns) / float64(s.MaxConns)
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, errPoolNotInitialized
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:    raw.AcquireCount(),
		AcquireDuration: raw.AcquireDuration(),
		AcquiredConns:   raw.AcquiredConns(),
		IdleConns:       raw.IdleConns(),
		MaxConns:        raw.MaxConns(),
		TotalConns:      raw.TotalConns(),
	}, nil
}

// ReportPoolStats đẩy stats lên gauges và warn khi pool gần cạn (>80%) hoặc acquire chậm (>100ms)
func ReportPoolStats(stats *PoolStats, m *metrics.Metrics) {
	m.SetPoolConns(stats.AcquiredConns, stats.IdleConns, stats.TotalConns, stats.MaxConns)

	if u := stats.Utilization(); u > 0.8 {
		log.Warn().
			Float64("utilization", u).
			Int32("acquired", stats.AcquiredConns).
			Int32("max", stats.MaxConns).
			Msg("database pool utilization high")
	}
	if avg := stats.AvgAcquireDuration(); avg > 100*time.Millisecond {
		log.Warn().Dur("avg_acquire", avg).Msg("database pool acquire latency high")
	}
}

// MonitorPoolHealth chạy trong goroutine riêng tới khi ctx bị cancel
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration, m *metrics.Metrics) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				log.Warn().Err(err).Msg("pool stats unavailable")
				continue
			}
			ReportPoolStats(stats, m)
		case <-ctx.Done():
			return
		}
	}
}
