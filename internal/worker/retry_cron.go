package worker

// retry_cron.go
// Background goroutine that moves dead-lettered jobs back onto their queue
// once the SMTP circuit breaker has closed again. Each job is redriven at
// most MaxRedrives times; after that it stays in the DLQ for a human.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tomasvarela21/ChapulinaApp/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = time.Minute
	retryBatchSize    = 20
	MaxRedrives       = 2
)

type RetryCronConfig struct {
	RDB   *redis.Client
	CB    *infra.CircuitBreaker
	Queue string
}

// StartRetryCron ticks every minute until ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	if cfg.Queue == "" {
		cfg.Queue = QueueAlertas
	}
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRedrives(ctx, cfg)
			}
		}
	}()
}

func processRedrives(ctx context.Context, cfg RetryCronConfig) {
	// no point moving jobs back while mail delivery is still failing
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	dlqKey := DLQPrefix + cfg.Queue
	n, err := cfg.RDB.LLen(ctx, dlqKey).Result()
	if err != nil || n == 0 {
		return
	}
	if n > retryBatchSize {
		n = retryBatchSize
	}

	redriven := 0
	for i := int64(0); i < n; i++ {
		raw, err := cfg.RDB.RPop(ctx, dlqKey).Result()
		if err != nil {
			return
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: corrupt DLQ entry dropped")
			continue
		}

		job, ok := redriveJob(entry)
		if !ok {
			// exhausted: rotate it back so newer entries get their turn
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			continue
		}
		if err := pushJob(ctx, cfg.RDB, entry.OriginalQueue, job); err != nil {
			log.Error().Err(err).Msg("retry_cron: redrive push failed")
			_ = cfg.RDB.LPush(ctx, dlqKey, raw).Err()
			return
		}
		redriven++
	}

	if redriven > 0 {
		log.Info().Int("count", redriven).Str("queue", cfg.Queue).Msg("retry_cron: jobs redriven from DLQ")
	}
}

// redriveJob rebuilds a fresh job from a DLQ entry, or reports false when the
// entry already used up its redrives or has no type.
func redriveJob(e DLQEntry) (Job, bool) {
	if e.JobType == "" || e.Redrives >= MaxRedrives {
		return Job{}, false
	}
	return Job{Type: e.JobType, Payload: e.Payload, Redrives: e.Redrives + 1}, true
}
