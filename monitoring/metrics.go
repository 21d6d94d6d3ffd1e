package monitoring

import (
	"context"
	"time"

	"market-pos/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	transactionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_transactions_recorded_total",
			Help: "Transactions written to the ledger",
		},
		[]string{"payment_method", "source"},
	)

	batchCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_batch_commits_total",
			Help: "Batch commits by outcome (complete, partial, failed)",
		},
		[]string{"payment_method", "outcome"},
	)

	batchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_batch_items_total",
			Help: "Batch items processed by kind and result",
		},
		[]string{"kind", "result"},
	)

	requestTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_payment_request_transitions_total",
			Help: "Payment request status transitions",
		},
		[]string{"status"},
	)

	snapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_snapshot_reloads_total",
			Help: "Full collection reloads triggered by change events",
		},
		[]string{"collection"},
	)

	realtimePublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_realtime_publishes_total",
			Help: "Change notifications published to realtime channels",
		},
		[]string{"channel", "status"},
	)

	activeBatchSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pos_active_batch_sessions",
			Help: "Operator sessions holding a non-empty batch",
		},
	)
)

func TrackTransaction(method, source string) {
	transactionsRecorded.WithLabelValues(method, source).Inc()
}

func TrackBatchCommit(method, outcome string) {
	batchCommits.WithLabelValues(method, outcome).Inc()
}

func TrackBatchItem(kind, result string) {
	batchItems.WithLabelValues(kind, result).Inc()
}

func TrackRequestTransition(status string) {
	requestTransitions.WithLabelValues(status).Inc()
}

func TrackSnapshotReload(collection string) {
	snapshotReloads.WithLabelValues(collection).Inc()
}

func TrackPublish(channel, status string) {
	realtimePublishes.WithLabelValues(channel, status).Inc()
}

// Monitor periodically samples state that lives in Redis.
type Monitor struct {
	redis     *redis.Client
	keyPrefix string
	interval  time.Duration
}

func NewMonitor(redisClient *redis.Client, batchKeyPrefix string, interval time.Duration) *Monitor {
	return &Monitor{redis: redisClient, keyPrefix: batchKeyPrefix, interval: interval}
}

// Run collects until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.collectSessionMetrics(ctx); err != nil {
				logger.FromContext(ctx).Warn("collect session metrics", zap.Error(err))
			}
		}
	}
}

func (m *Monitor) collectSessionMetrics(ctx context.Context) error {
	count, err := m.CountSessions(ctx)
	if err != nil {
		return err
	}
	activeBatchSessions.Set(float64(count))
	return nil
}

// CountSessions counts batch session keys with SCAN so Redis is never blocked by KEYS.
func (m *Monitor) CountSessions(ctx context.Context) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := m.redis.Scan(ctx, cursor, m.keyPrefix+"*", 100).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
