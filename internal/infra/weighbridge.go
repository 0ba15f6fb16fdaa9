package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// WeighbridgeReading is returned by the serial-to-HTTP bridge daemon that
// sits next to the scale indicator on the collection center LAN.
type WeighbridgeReading struct {
	WeightKg decimal.Decimal `json:"weight_kg"`
	Stable   bool            `json:"stable"`
	ReadAt   time.Time       `json:"read_at"`
}

// WeighbridgeClient reads the live scale weight from the bridge daemon. All
// calls go through a circuit breaker so a dead daemon fails fast instead of
// stalling the operator UI on every poll.
//
// With no daemon URL configured the client runs in stub mode and reports
// zero, unstable readings; operators then key weights in manually.
type WeighbridgeClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
}

func NewWeighbridgeClient(baseURL string) *WeighbridgeClient {
	return &WeighbridgeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cb:         NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Configured reports whether a daemon URL was provided.
func (c *WeighbridgeClient) Configured() bool { return c.baseURL != "" }

// BreakerState exposes the circuit breaker state for the health endpoint.
func (c *WeighbridgeClient) BreakerState() CBState { return c.cb.State() }

// ReadWeight fetches the current scale reading through the circuit breaker.
func (c *WeighbridgeClient) ReadWeight(ctx context.Context) (*WeighbridgeReading, error) {
	if !c.Configured() {
		return &WeighbridgeReading{WeightKg: decimal.Zero, Stable: false, ReadAt: time.Now()}, nil
	}

	var reading *WeighbridgeReading
	err := c.cb.Execute(func() error {
		r, err := c.fetch(ctx)
		if err != nil {
			return err
		}
		reading = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reading, nil
}

func (c *WeighbridgeClient) fetch(ctx context.Context) (*WeighbridgeReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weight", nil)
	if err != nil {
		return nil, fmt.Errorf("weighbridge: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weighbridge: daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weighbridge: daemon returned %d", resp.StatusCode)
	}

	var reading WeighbridgeReading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, fmt.Errorf("weighbridge: decode response: %w", err)
	}
	if reading.ReadAt.IsZero() {
		reading.ReadAt = time.Now()
	}
	return &reading, nil
}
