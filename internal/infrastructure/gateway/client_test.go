package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
	"github.com/kiprotich/tillpoint-api/pkg/apperror"
)

func newTestClient(primary, secondary string) *Client {
	return NewClient(Config{
		PrimaryURL:       primary,
		SecondaryURL:     secondary,
		Timeout:          time.Second,
		BreakerThreshold: 1,
		BreakerCooldown:  0,
	})
}

func sampleTransaction() *entity.SaleTransaction {
	return &entity.SaleTransaction{TransactionNumber: "TX-TEST-0001", Total: 3600}
}

func TestSubmitTransactionPrimarySuccess(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer primary.Close()

	c := newTestClient(primary.URL, "")
	result, err := c.SubmitTransaction(context.Background(), "tok", sampleTransaction())
	require.NoError(t, err)
	assert.False(t, result.Offline)
	assert.Equal(t, primary.URL, result.Endpoint)
	assert.True(t, c.Available())
}

func TestSubmitTransactionFallsBackToSecondary(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer secondary.Close()

	c := newTestClient(primary.URL, secondary.URL)
	result, err := c.SubmitTransaction(context.Background(), "tok", sampleTransaction())
	require.NoError(t, err)
	assert.False(t, result.Offline)
	assert.Equal(t, secondary.URL, result.Endpoint)
	assert.True(t, c.Available())
}

func TestSubmitTransactionBothDownSynthesizesOffline(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	down.Close() // connection refused from here on

	c := newTestClient(down.URL, down.URL)
	result, err := c.SubmitTransaction(context.Background(), "tok", sampleTransaction())
	require.NoError(t, err)
	assert.True(t, result.Offline)
	assert.False(t, c.Available())
}

func TestSubmitTransactionRecoversAfterSuccess(t *testing.T) {
	var healthy atomic.Bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	c := newTestClient(upstream.URL, "")

	result, err := c.SubmitTransaction(context.Background(), "tok", sampleTransaction())
	require.NoError(t, err)
	assert.True(t, result.Offline)
	assert.False(t, c.Available())

	// Upstream comes back; the half-open probe succeeds and availability
	// flips back.
	healthy.Store(true)
	result, err = c.SubmitTransaction(context.Background(), "tok", sampleTransaction())
	require.NoError(t, err)
	assert.False(t, result.Offline)
	assert.True(t, c.Available())
}

func TestSubmitTransactionAuthErrorsPropagate(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	c := newTestClient(upstream.URL, upstream.URL)
	result, err := c.SubmitTransaction(context.Background(), "bad-token", sampleTransaction())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusUnauthorized, apperror.GetAppError(err).Code)
	// Auth rejection is not an outage
	assert.True(t, c.Available())
}

func TestBreakerTransitions(t *testing.T) {
	b := NewBreaker(2, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	assert.Equal(t, BreakerClosed, b.State())
	assert.True(t, b.Allow())

	b.Failure()
	assert.Equal(t, BreakerClosed, b.State())
	b.Failure()
	assert.Equal(t, BreakerOpen, b.State())
	assert.False(t, b.Allow())

	// Cooldown elapses: one probe allowed
	now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())
	assert.Equal(t, BreakerHalfOpen, b.State())

	// Probe fails: straight back to Open
	b.Failure()
	assert.Equal(t, BreakerOpen, b.State())

	// Next probe succeeds: Closed again
	now = now.Add(2 * time.Minute)
	assert.True(t, b.Allow())
	b.Success()
	assert.Equal(t, BreakerClosed, b.State())
}
