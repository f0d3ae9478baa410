package session

import (
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)

func at(days int) time.Time {
	return base.AddDate(0, 0, days)
}

func TestSummarize(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, models.Summary{}, Summarize(nil))
	})

	t.Run("totals and averages", func(t *testing.T) {
		sessions := []models.StudySession{
			{TotalDurationSec: 100, FocusedTimeSec: 80, DrowsyTimeSec: 5, MaxAttentionSpanSec: 30},
			{TotalDurationSec: 300, FocusedTimeSec: 120, DrowsyTimeSec: 15, MaxAttentionSpanSec: 90},
		}

		got := Summarize(sessions)
		assert.Equal(t, 2, got.SessionCount)
		assert.InDelta(t, 400, got.TotalStudyTimeSec, 1e-9)
		assert.InDelta(t, 200, got.TotalFocusedTimeSec, 1e-9)
		assert.InDelta(t, 50, got.OverallFocusPercentage, 1e-9)
		assert.InDelta(t, 200, got.AvgSessionLengthSec, 1e-9)
		assert.InDelta(t, 60, got.AvgPeakFocusSec, 1e-9)
		assert.InDelta(t, 20, got.TotalDrowsyTimeSec, 1e-9)
	})

	t.Run("zero total duration", func(t *testing.T) {
		got := Summarize([]models.StudySession{{FocusedTimeSec: 10}})
		assert.Zero(t, got.OverallFocusPercentage)
		assert.Zero(t, got.AvgSessionLengthSec)
	})
}

func TestBestSessions(t *testing.T) {
	assert.Nil(t, BestSessions(nil).HighestFocus)
	assert.Nil(t, BestSessions(nil).LongestAttentionSpan)

	sessions := []models.StudySession{
		{ID: "a", WastedPercentage: 10, MaxAttentionSpanSec: 50},
		{ID: "b", WastedPercentage: 30, MaxAttentionSpanSec: 120},
		{ID: "c", WastedPercentage: 10, MaxAttentionSpanSec: 120},
	}

	got := BestSessions(sessions)
	require.NotNil(t, got.HighestFocus)
	require.NotNil(t, got.LongestAttentionSpan)
	// ties resolve to the later record
	assert.Equal(t, "c", got.HighestFocus.ID)
	assert.Equal(t, "c", got.LongestAttentionSpan.ID)

	got.HighestFocus.ID = "mutated"
	assert.Equal(t, "c", sessions[2].ID)
}

func TestTrend(t *testing.T) {
	var sessions []models.StudySession
	for i := 11; i >= 0; i-- {
		sessions = append(sessions, models.StudySession{Timestamp: at(i), WastedPercentage: float64(i)})
	}

	points := Trend(sessions, 10)
	require.Len(t, points, 10)
	assert.Equal(t, at(2), points[0].Timestamp)
	assert.Equal(t, at(11), points[9].Timestamp)
	assert.Equal(t, "Jan 4", points[0].Label)
	assert.InDelta(t, 98, points[0].FocusPercentage, 1e-9)

	assert.Empty(t, Trend(nil, 10))
	assert.NotNil(t, Trend(nil, 10))
}

func TestRecent(t *testing.T) {
	sessions := []models.StudySession{
		{ID: "old", Timestamp: at(0)},
		{ID: "newest", Timestamp: at(9)},
		{ID: "mid-1", Timestamp: at(5)},
		{ID: "mid-2", Timestamp: at(5)},
		{ID: "new", Timestamp: at(7)},
		{ID: "older", Timestamp: at(1)},
	}

	got := Recent(sessions, 5)
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"newest", "new", "mid-1", "mid-2", "older"}, ids)
	assert.Equal(t, "old", sessions[0].ID, "input must not be reordered")

	assert.Len(t, Recent(sessions[:2], 5), 2)
	assert.Empty(t, Recent(sessions, 0))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0.0s"},
		{12.5, "12.5s"},
		{59.9, "59.9s"},
		{60, "1.0m"},
		{192, "3.2m"},
		{3599, "60.0m"},
		{3600, "1h 0m"},
		{3900, "1h 5m"},
		{7322, "2h 2m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.sec), "sec=%v", tt.sec)
	}
}

func TestBuildDashboard(t *testing.T) {
	t.Run("empty listing", func(t *testing.T) {
		d := BuildDashboard(&models.SessionListing{Source: types.SourceLocal}, 10, 5)
		assert.Equal(t, "local", d.Source)
		assert.Equal(t, models.Summary{}, d.Summary)
		assert.Equal(t, "0.0s", d.SummaryLabels.TotalStudyTime)
		assert.Nil(t, d.PersonalBests.HighestFocus)
		assert.NotNil(t, d.Trend)
		assert.NotNil(t, d.Recent)
		assert.Empty(t, d.Trend)
		assert.Empty(t, d.Recent)
	})

	t.Run("populated listing", func(t *testing.T) {
		listing := &models.SessionListing{Source: types.SourceRemote, Sessions: []models.StudySession{
			{ID: "1", Timestamp: at(0), TotalDurationSec: 60, FocusedTimeSec: 30},
			{ID: "2", Timestamp: at(1), TotalDurationSec: 60, FocusedTimeSec: 60},
		}}

		d := BuildDashboard(listing, 10, 1)
		assert.Equal(t, "remote", d.Source)
		assert.Equal(t, 2, d.Summary.SessionCount)
		assert.Len(t, d.Trend, 2)
		require.Len(t, d.Recent, 1)
		assert.Equal(t, "2", d.Recent[0].ID)
		assert.Equal(t, "1.0m", d.Recent[0].Duration)
		assert.Equal(t, types.FocusExcellent, d.Recent[0].FocusLevel)
		assert.Equal(t, "2.0m", d.SummaryLabels.TotalStudyTime)
		assert.Equal(t, types.FocusExcellent, d.Trend[1].FocusLevel)
	})
}
