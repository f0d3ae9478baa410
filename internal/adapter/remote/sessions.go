package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/metrics"
	"github.com/cenkalti/backoff/v4"
)

const maxBodyBytes = 8 << 20

var ErrUnexpectedStatus = errors.New("unexpected response status")

type Config struct {
	URL         string
	Timeout     time.Duration
	MaxRetries  int
	InitialWait time.Duration
}

// SessionsClient reads the full session listing of the upstream tracker backend.
type SessionsClient struct {
	url        string
	client     *http.Client
	timeout    time.Duration
	maxRetries uint64
	initial    time.Duration
}

func New(cfg Config, client *http.Client) *SessionsClient {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.InitialWait <= 0 {
		cfg.InitialWait = 200 * time.Millisecond
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	return &SessionsClient{
		url:        cfg.URL,
		client:     client,
		timeout:    cfg.Timeout,
		maxRetries: uint64(cfg.MaxRetries),
		initial:    cfg.InitialWait,
	}
}

// remoteSession is the upstream wire format; ids arrive as "_id".
type remoteSession struct {
	ID                  string    `json:"_id"`
	AltID               string    `json:"id"`
	Username            string    `json:"username"`
	Timestamp           timestamp `json:"timestamp"`
	TotalDurationSec    float64   `json:"total_duration_sec"`
	FocusedTimeSec      float64   `json:"focused_time_sec"`
	WastedTimeSec       float64   `json:"wasted_time_sec"`
	DrowsyTimeSec       float64   `json:"drowsy_time_sec"`
	MaxAttentionSpanSec float64   `json:"max_attention_span_sec"`
	AvgAttentionSpanSec float64   `json:"avg_attention_span_sec"`
	WastedPercentage    float64   `json:"wasted_percentage"`
}

// timestampLayouts are tried in order; layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// timestamp accepts RFC 3339, zone-less ISO 8601 and epoch milliseconds.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = timestamp{}
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		*t = timestamp(time.UnixMilli(int64(ms)).UTC())
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", raw)
}

func (r remoteSession) toModel() models.StudySession {
	id := r.ID
	if id == "" {
		id = r.AltID
	}
	return models.StudySession{
		ID:                  id,
		Username:            r.Username,
		Timestamp:           time.Time(r.Timestamp),
		TotalDurationSec:    r.TotalDurationSec,
		FocusedTimeSec:      r.FocusedTimeSec,
		WastedTimeSec:       r.WastedTimeSec,
		DrowsyTimeSec:       r.DrowsyTimeSec,
		MaxAttentionSpanSec: r.MaxAttentionSpanSec,
		AvgAttentionSpanSec: r.AvgAttentionSpanSec,
		WastedPercentage:    r.WastedPercentage,
	}
}

// FetchAll returns every upstream session. Transport errors and 5xx are retried
// with exponential backoff; 4xx and undecodable bodies fail immediately.
func (c *SessionsClient) FetchAll(ctx context.Context) ([]models.StudySession, error) {
	const op = "SessionsClient.FetchAll"
	start := time.Now()
	defer func() { metrics.RemoteFetchDuration.Observe(time.Since(start).Seconds()) }()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.initial
	eb.MaxInterval = 4 * c.initial
	bkoff := backoff.WithContext(backoff.WithMaxRetries(eb, c.maxRetries), ctx)

	var payload []remoteSession
	err := backoff.Retry(func() error {
		var err error
		payload, err = c.fetchOnce(ctx)
		return err
	}, bkoff)
	if err != nil {
		ctx = wrap.WithAction(ctx, types.ActionExternalServiceFailed)
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	sessions := make([]models.StudySession, 0, len(payload))
	for _, p := range payload {
		sessions = append(sessions, p.toModel())
	}
	return sessions, nil
}

func (c *SessionsClient) fetchOnce(ctx context.Context) ([]remoteSession, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		err := fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var payload []remoteSession
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return payload, nil
}
