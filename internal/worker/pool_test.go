package worker

import (
	"context"
	"testing"

	"paddyledger/internal/service"

	"github.com/stretchr/testify/assert"
)

// The purchase service consumes the dispatcher through its own
// ReceiptDispatcher interface; the concrete type must keep satisfying it.
var _ service.ReceiptDispatcher = (*Dispatcher)(nil)

func TestEnqueueReceipt_NoRedisIsNoOp(t *testing.T) {
	d := NewDispatcher(nil)
	err := d.EnqueueReceipt(context.Background(), map[string]interface{}{"transaction_id": "x"})
	assert.NoError(t, err)
}
