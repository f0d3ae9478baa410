package models

import (
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
)

type Summary struct {
	SessionCount           int     `json:"session_count"`
	TotalStudyTimeSec      float64 `json:"total_study_time_sec"`
	TotalFocusedTimeSec    float64 `json:"total_focused_time_sec"`
	OverallFocusPercentage float64 `json:"overall_focus_percentage"`
	AvgSessionLengthSec    float64 `json:"avg_session_length_sec"`
	AvgPeakFocusSec        float64 `json:"avg_peak_focus_sec"`
	TotalDrowsyTimeSec     float64 `json:"total_drowsy_time_sec"`
}

// SummaryLabels holds the summary durations formatted for display.
type SummaryLabels struct {
	TotalStudyTime   string `json:"total_study_time"`
	TotalFocusedTime string `json:"total_focused_time"`
	AvgSessionLength string `json:"avg_session_length"`
	AvgPeakFocus     string `json:"avg_peak_focus"`
	TotalDrowsyTime  string `json:"total_drowsy_time"`
}

type PersonalBests struct {
	HighestFocus         *StudySession `json:"highest_focus"`
	LongestAttentionSpan *StudySession `json:"longest_attention_span"`
}

type TrendPoint struct {
	Timestamp       time.Time        `json:"timestamp"`
	Label           string           `json:"label"`
	FocusPercentage float64          `json:"focus_percentage"`
	FocusLevel      types.FocusLevel `json:"focus_level"`
}

// SessionView is a session with the display fields the dashboard renders.
type SessionView struct {
	StudySession
	FocusPercentage float64          `json:"focus_percentage"`
	FocusLevel      types.FocusLevel `json:"focus_level"`
	Duration        string           `json:"duration"`
}

type Dashboard struct {
	Source        string        `json:"source"`
	Summary       Summary       `json:"summary"`
	SummaryLabels SummaryLabels `json:"summary_labels"`
	PersonalBests PersonalBests `json:"personal_bests"`
	Trend         []TrendPoint  `json:"trend"`
	Recent        []SessionView `json:"recent"`
}

// SessionLog is one sorted page of a user's sessions.
type SessionLog struct {
	Source   string         `json:"source"`
	Sessions []StudySession `json:"sessions"`
	Metadata Metadata       `json:"metadata"`
}
