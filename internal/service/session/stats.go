package session

import (
	"fmt"
	"math"
	"slices"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
)

const trendLabelLayout = "Jan 2"

// Summarize totals a user's sessions. Ratios are 0 when there is nothing to divide by.
func Summarize(sessions []models.StudySession) models.Summary {
	var s models.Summary
	s.SessionCount = len(sessions)

	var peakSum float64
	for _, sess := range sessions {
		s.TotalStudyTimeSec += sess.TotalDurationSec
		s.TotalFocusedTimeSec += sess.FocusedTimeSec
		s.TotalDrowsyTimeSec += sess.DrowsyTimeSec
		peakSum += sess.MaxAttentionSpanSec
	}

	if s.TotalStudyTimeSec > 0 {
		s.OverallFocusPercentage = s.TotalFocusedTimeSec / s.TotalStudyTimeSec * 100
	}
	if s.SessionCount > 0 {
		s.AvgSessionLengthSec = s.TotalStudyTimeSec / float64(s.SessionCount)
		s.AvgPeakFocusSec = peakSum / float64(s.SessionCount)
	}
	return s
}

// BestSessions picks the highest-focus and the longest-attention session.
// On ties the later record in input order wins.
func BestSessions(sessions []models.StudySession) models.PersonalBests {
	var bests models.PersonalBests
	if len(sessions) == 0 {
		return bests
	}

	focus, span := 0, 0
	for i := 1; i < len(sessions); i++ {
		if sessions[i].FocusPercentage() >= sessions[focus].FocusPercentage() {
			focus = i
		}
		if sessions[i].MaxAttentionSpanSec >= sessions[span].MaxAttentionSpanSec {
			span = i
		}
	}

	highest := sessions[focus]
	longest := sessions[span]
	bests.HighestFocus = &highest
	bests.LongestAttentionSpan = &longest
	return bests
}

// newestFirst returns a copy sorted by timestamp, newest first. Equal timestamps keep input order.
func newestFirst(sessions []models.StudySession) []models.StudySession {
	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b models.StudySession) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return sorted
}

// Trend returns the focus series of the n most recent sessions in chronological order.
func Trend(sessions []models.StudySession, n int) []models.TrendPoint {
	recent := Recent(sessions, n)

	points := make([]models.TrendPoint, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		s := recent[i]
		points = append(points, models.TrendPoint{
			Timestamp:       s.Timestamp,
			Label:           s.Timestamp.Format(trendLabelLayout),
			FocusPercentage: s.FocusPercentage(),
			FocusLevel:      s.FocusLevel(),
		})
	}
	return points
}

// Recent returns the n most recent sessions, newest first. This is the newest
// n overall, not the head of the chronological trend window.
func Recent(sessions []models.StudySession, n int) []models.StudySession {
	if n <= 0 {
		return []models.StudySession{}
	}
	sorted := newestFirst(sessions)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatDuration renders seconds as "12.5s", "3.2m" or "1h 5m".
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.1fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1fm", seconds/60)
	default:
		hours := math.Floor(seconds / 3600)
		minutes := math.Floor(math.Mod(seconds, 3600) / 60)
		return fmt.Sprintf("%dh %dm", int(hours), int(minutes))
	}
}

// Labels formats the summary durations.
func Labels(s models.Summary) models.SummaryLabels {
	return models.SummaryLabels{
		TotalStudyTime:   FormatDuration(s.TotalStudyTimeSec),
		TotalFocusedTime: FormatDuration(s.TotalFocusedTimeSec),
		AvgSessionLength: FormatDuration(s.AvgSessionLengthSec),
		AvgPeakFocus:     FormatDuration(s.AvgPeakFocusSec),
		TotalDrowsyTime:  FormatDuration(s.TotalDrowsyTimeSec),
	}
}

// Views decorates sessions with their focus level and formatted duration.
func Views(sessions []models.StudySession) []models.SessionView {
	views := make([]models.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, models.SessionView{
			StudySession:    s,
			FocusPercentage: s.FocusPercentage(),
			FocusLevel:      s.FocusLevel(),
			Duration:        FormatDuration(s.TotalDurationSec),
		})
	}
	return views
}

// BuildDashboard assembles every dashboard panel from one listing.
func BuildDashboard(listing *models.SessionListing, trendSize, recentSize int) *models.Dashboard {
	summary := Summarize(listing.Sessions)
	return &models.Dashboard{
		Source:        listing.Source.String(),
		Summary:       summary,
		SummaryLabels: Labels(summary),
		PersonalBests: BestSessions(listing.Sessions),
		Trend:         Trend(listing.Sessions, trendSize),
		Recent:        Views(Recent(listing.Sessions, recentSize)),
	}
}
