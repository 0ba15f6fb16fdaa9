package worker

// receipt_worker.go
// Renders the printable PDF weighbridge receipt for a completed purchase.
// Rendering is best-effort: the purchase row is already committed when the
// job runs, so failures are retried with backoff and finally parked in the
// DLQ instead of surfacing to the operator at the scale.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paddyledger/internal/infra"
	"paddyledger/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxReceiptAttempts = 3

// ReceiptJobPayload is the job envelope pushed to QueueReceipt.
type ReceiptJobPayload struct {
	TransactionID string `json:"transaction_id"`
	ReceiptNumber string `json:"receipt_number"`
}

// ReceiptWorker processes receipt-rendering jobs from QueueReceipt.
type ReceiptWorker struct {
	purchases   repository.PurchaseRepository
	rdb         *redis.Client
	storagePath string
	centerName  string
}

func NewReceiptWorker(purchases repository.PurchaseRepository, rdb *redis.Client, storagePath, centerName string) *ReceiptWorker {
	return &ReceiptWorker{
		purchases:   purchases,
		rdb:         rdb,
		storagePath: storagePath,
		centerName:  centerName,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the purchase (with farmer, grade and season) from DB
//  3. Render the PDF with backoff (max 3 attempts)
//  4. Park the job in the DLQ if rendering keeps failing
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	w.ProcessWithAttempts(ctx, raw, 0)
}

// ProcessWithAttempts is Process with a prior-attempt count carried over from
// the DLQ, so redelivered jobs accumulate attempts instead of resetting.
func (w *ReceiptWorker) ProcessWithAttempts(ctx context.Context, raw json.RawMessage, priorAttempts int) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	id, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		log.Error().Str("transaction_id", payload.TransactionID).Msg("receipt_worker: invalid transaction_id")
		return
	}

	purchase, err := w.purchases.FindByID(ctx, id)
	if err != nil {
		// The row is committed before the job is enqueued, so a miss here
		// means the payload is stale. Not worth retrying.
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("receipt_worker: purchase not found")
		return
	}

	var pdfPath string
	renderErr := withRetry(ctx, maxReceiptAttempts, func(attempt int) error {
		path, err := infra.GenerateReceiptPDF(purchase, w.centerName, w.storagePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("receipt_number", purchase.ReceiptNumber).
				Msg("receipt_worker: render attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})

	if renderErr != nil {
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw,
			fmt.Sprintf("render failed after %d attempts: %v", maxReceiptAttempts, renderErr),
			priorAttempts+maxReceiptAttempts)
		return
	}

	log.Info().
		Str("receipt_number", purchase.ReceiptNumber).
		Str("pdf", pdfPath).
		Msg("receipt_worker: receipt rendered")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
