// Package pricing - Remote pricing provider client
// Read-only HTTP client for a pricing API. Transient failures are
// retried with exponential backoff up to a bounded attempt count; a
// missing price is not retried.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// RemoteOptions configures the HTTP provider
type RemoteOptions struct {
	// Endpoint is the base URL of the pricing API
	Endpoint string

	// Timeout bounds a single request
	Timeout time.Duration

	// MaxAttempts bounds retries for transient failures
	MaxAttempts int

	// BackoffBase is the base delay for exponential backoff
	BackoffBase time.Duration
}

// DefaultRemoteOptions returns production defaults
func DefaultRemoteOptions(endpoint string) RemoteOptions {
	return RemoteOptions{
		Endpoint:    endpoint,
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		BackoffBase: 250 * time.Millisecond,
	}
}

// HTTPProvider implements Provider against a JSON pricing API
type HTTPProvider struct {
	endpoint    string
	client      *http.Client
	maxAttempts int
	backoffBase time.Duration
	log         *zap.Logger
}

// NewHTTPProvider creates a provider from options
func NewHTTPProvider(opts RemoteOptions, log *zap.Logger) *HTTPProvider {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = 250 * time.Millisecond
	}
	return &HTTPProvider{
		endpoint:    opts.Endpoint,
		client:      &http.Client{Timeout: opts.Timeout},
		maxAttempts: opts.MaxAttempts,
		backoffBase: opts.BackoffBase,
		log:         log,
	}
}

type rateResponse struct {
	Rate     string `json:"rate"`
	Currency string `json:"currency"`
}

// FetchRate implements Provider
func (p *HTTPProvider) FetchRate(ctx context.Context, key types.PriceKey) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("instance_type", key.InstanceType)
	q.Set("region", key.Region)
	q.Set("kind", string(key.Model.Kind))
	if key.Model.Term != "" {
		q.Set("term", string(key.Model.Term))
	}
	if key.Model.Payment != "" {
		q.Set("payment", string(key.Model.Payment))
	}
	if key.Model.OfferingClass != "" {
		q.Set("offering_class", string(key.Model.OfferingClass))
	}
	if key.Model.Scope != "" {
		q.Set("scope", string(key.Model.Scope))
	}
	return p.fetch(ctx, p.endpoint+"/v1/rates?"+q.Encode())
}

// FetchStorageRate implements Provider
func (p *HTTPProvider) FetchStorageRate(ctx context.Context, key types.StoragePriceKey) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("volume_class", key.VolumeClass)
	q.Set("region", key.Region)
	return p.fetch(ctx, p.endpoint+"/v1/storage-rates?"+q.Encode())
}

// fetch issues the request with bounded retry. 404 means no data and is
// returned immediately; everything else transient is retried.
func (p *HTTPProvider) fetch(ctx context.Context, rawURL string) (decimal.Decimal, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := p.backoff(ctx, attempt); err != nil {
				return decimal.Zero, errors.RemoteProvider("retry aborted", err)
			}
		}

		rate, retryable, err := p.fetchOnce(ctx, rawURL)
		if err == nil {
			return rate, nil
		}
		if !retryable {
			return decimal.Zero, err
		}
		lastErr = err
		p.log.Debug("pricing request failed, retrying",
			zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Error(err))
	}

	return decimal.Zero, errors.RemoteProvider(
		fmt.Sprintf("pricing request failed after %d attempts", p.maxAttempts), lastErr)
}

func (p *HTTPProvider) fetchOnce(ctx context.Context, rawURL string) (decimal.Decimal, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return decimal.Zero, false, errors.RemoteProvider("failed to build request", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, true, errors.RemoteProvider("request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return decimal.Zero, false, errors.DataUnavailable(rawURL)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, true, errors.Newf(errors.TypeRemoteProvider, "pricing API returned status %d", resp.StatusCode)
	}

	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, false, errors.RemoteProvider("malformed pricing payload", err)
	}

	rate, err := decimal.NewFromString(body.Rate)
	if err != nil {
		return decimal.Zero, false, errors.RemoteProvider("unparseable rate in payload", err)
	}
	return rate, false, nil
}

// backoff waits base * 2^(attempt-2), honoring context cancellation
func (p *HTTPProvider) backoff(ctx context.Context, attempt int) error {
	delay := p.backoffBase
	for i := 2; i < attempt; i++ {
		delay *= 2
	}
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
