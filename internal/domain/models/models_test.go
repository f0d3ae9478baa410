package models

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusLevelOf(t *testing.T) {
	tests := []struct {
		pct  float64
		want types.FocusLevel
	}{
		{100, types.FocusExcellent},
		{75.1, types.FocusExcellent},
		{75, types.FocusGood},
		{50.5, types.FocusGood},
		{50, types.FocusFair},
		{25.01, types.FocusFair},
		{25, types.FocusPoor},
		{0, types.FocusPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FocusLevelOf(tt.pct), "pct=%v", tt.pct)
	}

	s := StudySession{WastedPercentage: 20}
	assert.InDelta(t, 80, s.FocusPercentage(), 1e-9)
	assert.Equal(t, types.FocusExcellent, s.FocusLevel())
}

func TestSessionCreateRequest_Validate(t *testing.T) {
	t.Run("missing fields are reported as required", func(t *testing.T) {
		var req SessionCreateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"total_duration_sec": 60}`), &req))

		v := validator.New()
		req.Validate(v)

		assert.False(t, v.Valid())
		assert.True(t, v.HasTag("required"))
		assert.Equal(t, "must be provided", v.Errors["focused_time_sec"])
		assert.NotContains(t, v.Errors, "total_duration_sec")
	})

	t.Run("explicit zero is accepted", func(t *testing.T) {
		var req SessionCreateRequest
		body := `{"total_duration_sec":0,"focused_time_sec":0,"wasted_time_sec":0,"drowsy_time_sec":0,
			"max_attention_span_sec":0,"avg_attention_span_sec":0,"wasted_percentage":0}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		v := validator.New()
		req.Validate(v)
		assert.True(t, v.Valid(), v.Errors)
	})

	t.Run("out of range values", func(t *testing.T) {
		var req SessionCreateRequest
		body := `{"total_duration_sec":-1,"focused_time_sec":0,"wasted_time_sec":0,"drowsy_time_sec":0,
			"max_attention_span_sec":0,"avg_attention_span_sec":0,"wasted_percentage":101}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		v := validator.New()
		req.Validate(v)
		assert.False(t, v.Valid())
		assert.False(t, v.HasTag("required"))
		assert.Contains(t, v.Errors, "total_duration_sec")
		assert.Equal(t, "must be less than or equal to 100", v.Errors["wasted_percentage"])
	})
}

func TestSessionCreateRequest_ToSession(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	req := SessionCreateRequest{
		TotalDurationSec: f(100), FocusedTimeSec: f(80), WastedTimeSec: f(20), DrowsyTimeSec: f(5),
		MaxAttentionSpanSec: f(40), AvgAttentionSpanSec: f(20), WastedPercentage: f(20),
	}
	owner := uuid.New()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	s := req.ToSession(owner, "alice", now)
	assert.Equal(t, owner, s.OwnerID)
	assert.Equal(t, now, s.Timestamp)
	assert.InDelta(t, 40, s.MaxAttentionSpanSec, 1e-9)

	client := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	req.Timestamp = &client
	assert.Equal(t, client, req.ToSession(owner, "alice", now).Timestamp)
}

func TestUserContext(t *testing.T) {
	assert.True(t, UserFromContext(context.Background()).IsAnonymous())

	u := &User{ID: uuid.New(), Username: "alice"}
	got := UserFromContext(WithUser(context.Background(), u))
	assert.False(t, got.IsAnonymous())
	assert.Equal(t, "alice", got.Username)
}

func TestCalculateMetadata(t *testing.T) {
	assert.Equal(t, Metadata{CurrentPage: 1, PageSize: 15}, CalculateMetadata(0, 1, 15))
	assert.Equal(t, Metadata{CurrentPage: 2, PageSize: 5, FirstPage: 1, LastPage: 3, TotalRecords: 12}, CalculateMetadata(12, 2, 5))
}

func TestFilters(t *testing.T) {
	safelist := []string{"timestamp", "-timestamp"}

	f, err := NewFilters(1, 15, "-timestamp", safelist)
	require.NoError(t, err)
	assert.Equal(t, "timestamp", f.SortColumn())
	assert.True(t, f.Descending())
	start, end := f.Window(40)
	assert.Equal(t, [2]int{0, 15}, [2]int{start, end})

	f.Page = 3
	start, end = f.Window(40)
	assert.Equal(t, [2]int{30, 40}, [2]int{start, end})

	f.Page = 9
	start, end = f.Window(40)
	assert.Equal(t, [2]int{40, 40}, [2]int{start, end})

	v := validator.New()
	Filters{Page: 0, PageSize: 101, Sort: "name", SortSafelist: safelist}.Validate(v)
	assert.Len(t, v.Errors, 3)

	_, err = NewFilters(1, 15, "x", nil)
	assert.Error(t, err)
}

func TestUserCreateRequest_Validate(t *testing.T) {
	for _, name := range []string{"alice@uni.edu", "Jane Doe", "élodie"} {
		v := validator.New()
		(&UserCreateRequest{Username: name, Name: "N", Password: "secret1"}).Validate(v)
		assert.True(t, v.Valid(), "%q: %v", name, v.Errors)
	}

	v := validator.New()
	(&UserCreateRequest{Username: "al", Name: "N", Password: "secret1"}).Validate(v)
	assert.Contains(t, v.Errors, "username")
}
