package worker

// redelivery_cron.go
// Background goroutine that periodically drains the receipt DLQ and re-runs
// the parked jobs. Receipt rendering usually fails for transient reasons
// (storage volume briefly unmounted, disk pressure), so a slow redelivery
// loop recovers unattended. Entries that keep failing past the attempt cap
// stay parked for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	redeliveryTickInterval = 5 * time.Minute
	redeliveryBatchSize    = 10
	redeliveryAttemptCap   = 9
)

// StartReceiptRedeliveryCron launches a background goroutine that ticks every
// 5 minutes and re-attempts a bounded batch of DLQ'd receipt jobs. It respects
// the context for graceful shutdown.
func StartReceiptRedeliveryCron(ctx context.Context, rdb *redis.Client, receipts *ReceiptWorker) {
	go func() {
		ticker := time.NewTicker(redeliveryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("redelivery_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("redelivery_cron: shutting down")
				return
			case <-ticker.C:
				processRedeliveries(ctx, rdb, receipts)
			}
		}
	}()
}

func processRedeliveries(ctx context.Context, rdb *redis.Client, receipts *ReceiptWorker) {
	dlqKey := DLQPrefix + QueueReceipt

	for i := 0; i < redeliveryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if err != nil {
			// redis.Nil means the queue is drained
			return
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("redelivery_cron: malformed DLQ entry dropped")
			continue
		}

		if entry.Attempts >= redeliveryAttemptCap {
			// Exhausted. Park it at the head so the batch loop does not
			// keep cycling through it, and leave it for manual handling.
			_ = rdb.LPush(ctx, dlqKey, raw).Err()
			log.Error().
				Str("job_type", entry.JobType).
				Int("attempts", entry.Attempts).
				Msg("redelivery_cron: entry exceeded attempt cap, left parked")
			return
		}

		log.Info().
			Str("job_type", entry.JobType).
			Int("attempts", entry.Attempts).
			Msg("redelivery_cron: re-running parked receipt job")

		// ProcessWithAttempts re-parks the entry itself (with attempts
		// accumulated) if rendering still fails.
		receipts.ProcessWithAttempts(ctx, entry.Payload, entry.Attempts)
	}
}
