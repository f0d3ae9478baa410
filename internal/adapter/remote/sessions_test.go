package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(url string, retries int) *SessionsClient {
	return New(Config{URL: url, Timeout: time.Second, MaxRetries: retries, InitialWait: time.Millisecond}, nil)
}

func TestSessionsClient_FetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"_id":"abc","username":"alice","timestamp":"2024-03-01T10:00:00Z","total_duration_sec":120,
			 "focused_time_sec":90,"wasted_time_sec":30,"drowsy_time_sec":4,"max_attention_span_sec":60,
			 "avg_attention_span_sec":30,"wasted_percentage":25},
			{"id":"def","username":"bob","timestamp":"2024-03-02T10:00:00Z"}
		]`))
	}))
	defer srv.Close()

	sessions, err := newClient(srv.URL, 0).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "abc", sessions[0].ID)
	assert.Equal(t, "alice", sessions[0].Username)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), sessions[0].Timestamp)
	assert.InDelta(t, 25, sessions[0].WastedPercentage, 1e-9)
	assert.Equal(t, "def", sessions[1].ID)
}

func TestSessionsClient_FetchAll_TimestampFormats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"_id":"a","username":"alice","timestamp":"2024-05-01T09:30:00.123456"},
			{"_id":"b","username":"alice","timestamp":"2024-05-01 09:30:00"},
			{"_id":"c","username":"alice","timestamp":"2024-05-01T11:30:00+02:00"},
			{"_id":"d","username":"alice","timestamp":1714555800000},
			{"_id":"e","username":"alice","timestamp":null}
		]`))
	}))
	defer srv.Close()

	sessions, err := newClient(srv.URL, 0).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 5)

	want := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, want.Add(123456*time.Microsecond), sessions[0].Timestamp)
	assert.Equal(t, want, sessions[1].Timestamp)
	assert.True(t, want.Equal(sessions[2].Timestamp))
	assert.True(t, want.Equal(sessions[3].Timestamp))
	assert.True(t, sessions[4].Timestamp.IsZero())
}

func TestSessionsClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	sessions, err := newClient(srv.URL, 3).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSessionsClient_Failures(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newClient(srv.URL, 3).FetchAll(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("undecodable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		_, err := newClient(srv.URL, 3).FetchAll(context.Background())
		assert.Error(t, err)
	})

	t.Run("retries exhausted", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := newClient(srv.URL, 2).FetchAll(context.Background())
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := New(Config{URL: srv.URL, Timeout: 20 * time.Millisecond, InitialWait: time.Millisecond}, nil)
		_, err := c.FetchAll(context.Background())
		assert.Error(t, err)
	})
}
