package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
)

// Config holds the upstream gateway endpoints and resilience knobs.
type Config struct {
	PrimaryURL       string
	SecondaryURL     string
	Timeout          time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// Client mirrors finalized sale transactions to the head-office endpoint.
// Submission tries the primary endpoint, then the secondary, and only when
// both are unreachable reports an offline result so the caller can synthesize
// a locally tagged record. The floor keeps selling either way.
type Client struct {
	primary   string
	secondary string
	http      *http.Client
	breaker   *Breaker
}

// SubmitResult describes how a transaction reached (or failed to reach) the
// upstream.
type SubmitResult struct {
	// Offline is true when no endpoint accepted the transaction and the
	// record must be tagged as offline-recorded.
	Offline bool
	// Endpoint is the base URL that accepted the transaction, empty when
	// offline.
	Endpoint string
}

// NewClient creates a gateway client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		primary:   cfg.PrimaryURL,
		secondary: cfg.SecondaryURL,
		http:      &http.Client{Timeout: timeout},
		breaker:   NewBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
	}
}

// Available reports whether the upstream is currently believed reachable.
func (c *Client) Available() bool {
	return c.breaker.State() == BreakerClosed
}

// BreakerState exposes the circuit state for health reporting.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

// SubmitTransaction posts a finalized transaction upstream. The bearer token
// is the caller's and passes through opaque. Authorization rejections (401,
// 403) propagate unmodified and never fall back; transient failures walk the
// primary → secondary → offline chain.
func (c *Client) SubmitTransaction(ctx context.Context, token string, txn *entity.SaleTransaction) (*SubmitResult, error) {
	if !c.breaker.Allow() {
		return &SubmitResult{Offline: true}, nil
	}

	payload, err := json.Marshal(txn)
	if err != nil {
		return nil, fmt.Errorf("gateway: failed to encode transaction: %w", err)
	}

	endpoints := []string{c.primary}
	if c.secondary != "" {
		endpoints = append(endpoints, c.secondary)
	}

	for _, base := range endpoints {
		if base == "" {
			continue
		}

		accepted, err := c.post(ctx, base, token, payload)
		if err != nil {
			var appErr *apperror.AppError
			if apperror.IsAppError(err) {
				appErr = apperror.GetAppError(err)
			}
			// Auth rejections are not transient: surface them, do not fake
			// success and do not trip the breaker.
			if appErr != nil && (appErr.Code == http.StatusUnauthorized || appErr.Code == http.StatusForbidden) {
				return nil, err
			}
			log.Printf("gateway: %s rejected transaction %s: %v", base, txn.TransactionNumber, err)
			continue
		}
		if accepted {
			c.breaker.Success()
			return &SubmitResult{Endpoint: base}, nil
		}
	}

	c.breaker.Failure()
	return &SubmitResult{Offline: true}, nil
}

func (c *Client) post(ctx context.Context, base, token string, payload []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/transactions", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return false, apperror.ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return false, apperror.ErrForbidden
	default:
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}
