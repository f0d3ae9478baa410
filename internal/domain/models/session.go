package models

import (
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
	"github.com/google/uuid"
)

// StudySession is one telemetry record produced by the desktop tracker.
// Records are immutable once stored.
type StudySession struct {
	ID                  string    `json:"id"`
	OwnerID             uuid.UUID `json:"owner_id,omitzero"`
	Username            string    `json:"username,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	TotalDurationSec    float64   `json:"total_duration_sec"`
	FocusedTimeSec      float64   `json:"focused_time_sec"`
	WastedTimeSec       float64   `json:"wasted_time_sec"`
	DrowsyTimeSec       float64   `json:"drowsy_time_sec"`
	MaxAttentionSpanSec float64   `json:"max_attention_span_sec"`
	AvgAttentionSpanSec float64   `json:"avg_attention_span_sec"`
	WastedPercentage    float64   `json:"wasted_percentage"`
	CreatedAt           time.Time `json:"created_at,omitzero"`
}

// FocusPercentage is the share of the session that was not wasted.
func (s StudySession) FocusPercentage() float64 {
	return 100 - s.WastedPercentage
}

func (s StudySession) FocusLevel() types.FocusLevel {
	return FocusLevelOf(s.FocusPercentage())
}

func FocusLevelOf(percentage float64) types.FocusLevel {
	switch {
	case percentage > 75:
		return types.FocusExcellent
	case percentage > 50:
		return types.FocusGood
	case percentage > 25:
		return types.FocusFair
	default:
		return types.FocusPoor
	}
}

// SessionCreateRequest carries the telemetry fields. Pointers distinguish a
// missing value from an explicit zero.
type SessionCreateRequest struct {
	Timestamp           *time.Time `json:"timestamp,omitempty"`
	TotalDurationSec    *float64   `json:"total_duration_sec" validate:"required,gte=0"`
	FocusedTimeSec      *float64   `json:"focused_time_sec" validate:"required,gte=0"`
	WastedTimeSec       *float64   `json:"wasted_time_sec" validate:"required,gte=0"`
	DrowsyTimeSec       *float64   `json:"drowsy_time_sec" validate:"required,gte=0"`
	MaxAttentionSpanSec *float64   `json:"max_attention_span_sec" validate:"required,gte=0"`
	AvgAttentionSpanSec *float64   `json:"avg_attention_span_sec" validate:"required,gte=0"`
	WastedPercentage    *float64   `json:"wasted_percentage" validate:"required,gte=0,lte=100"`
}

func (r *SessionCreateRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

// ToSession builds the record owned by ownerID. It must only be called after Validate passed.
func (r *SessionCreateRequest) ToSession(ownerID uuid.UUID, username string, now time.Time) *StudySession {
	ts := now.UTC()
	if r.Timestamp != nil && !r.Timestamp.IsZero() {
		ts = r.Timestamp.UTC()
	}

	return &StudySession{
		OwnerID:             ownerID,
		Username:            username,
		Timestamp:           ts,
		TotalDurationSec:    *r.TotalDurationSec,
		FocusedTimeSec:      *r.FocusedTimeSec,
		WastedTimeSec:       *r.WastedTimeSec,
		DrowsyTimeSec:       *r.DrowsyTimeSec,
		MaxAttentionSpanSec: *r.MaxAttentionSpanSec,
		AvgAttentionSpanSec: *r.AvgAttentionSpanSec,
		WastedPercentage:    *r.WastedPercentage,
	}
}

// SessionListing is a user's records together with where they were read from.
type SessionListing struct {
	Source   types.Source
	Sessions []StudySession
}
