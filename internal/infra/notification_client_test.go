package infra

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"order-desk/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func confirmedOrder() *domain.Order {
	paid := time.Date(2024, 11, 16, 13, 0, 0, 0, time.UTC)
	confirmed := time.Date(2024, 11, 16, 13, 30, 46, 0, time.UTC)
	return &domain.Order{
		ID:            2,
		TotalCost:     decimal.RequireFromString("400"),
		Status:        domain.StatusConfirmed,
		PaymentDate:   &paid,
		ConfirmedDate: &confirmed,
	}
}

func TestBuildConfirmationMessage(t *testing.T) {
	msg := BuildConfirmationMessage(confirmedOrder())

	assert.Equal(t, uint64(2), msg.ID)
	assert.Equal(t, "400.00", msg.Cost)
	assert.Equal(t, "2024-11-16T13:30:46Z", msg.ConfirmDT)
}

func TestNotificationClient_NotifyConfirmed(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      bool
		wantCalls int32
	}{
		{name: "200 is success", status: http.StatusOK, want: true, wantCalls: 1},
		{name: "201 is success", status: http.StatusCreated, want: true, wantCalls: 1},
		{name: "204 is success", status: http.StatusNoContent, want: true, wantCalls: 1},
		{name: "server error is not retried", status: http.StatusInternalServerError, want: false, wantCalls: 1},
		{name: "redirect class is failure", status: http.StatusNotModified, want: false, wantCalls: 1},
		{name: "bad request is failure", status: http.StatusBadRequest, want: false, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			var got ConfirmationMessage
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewNotificationClient(srv.URL, time.Second, zap.NewNop())
			ok := c.NotifyConfirmed(context.Background(), confirmedOrder())

			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
			assert.Equal(t, uint64(2), got.ID)
			assert.Equal(t, "400.00", got.Cost)
		})
	}
}

func TestNotificationClient_RetriesTransportErrors(t *testing.T) {
	t.Run("gives up after three attempts", func(t *testing.T) {
		var calls int32
		c := NewNotificationClient("http://notify.invalid/orders", time.Second, zap.NewNop())
		c.httpClient.Transport = roundTripFunc(func(*http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection refused")
		})

		assert.False(t, c.NotifyConfirmed(context.Background(), confirmedOrder()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("succeeds on a later attempt", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		var calls int32
		c := NewNotificationClient(srv.URL, time.Second, zap.NewNop())
		base := http.DefaultTransport
		c.httpClient.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return nil, errors.New("connection reset")
			}
			return base.RoundTrip(r)
		})

		assert.True(t, c.NotifyConfirmed(context.Background(), confirmedOrder()))
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestIsSuccess(t *testing.T) {
	require.True(t, isSuccess(200))
	require.True(t, isSuccess(209))
	require.False(t, isSuccess(210))
	require.False(t, isSuccess(199))
}
