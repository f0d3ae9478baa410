package session

import (
	"cmp"
	"slices"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
)

const DefaultSort = "-timestamp"

// sortKeys maps every sortable field to an ascending comparator.
var sortKeys = map[string]func(a, b models.StudySession) int{
	"timestamp":              func(a, b models.StudySession) int { return a.Timestamp.Compare(b.Timestamp) },
	"total_duration_sec":     byField(func(s models.StudySession) float64 { return s.TotalDurationSec }),
	"focused_time_sec":       byField(func(s models.StudySession) float64 { return s.FocusedTimeSec }),
	"wasted_time_sec":        byField(func(s models.StudySession) float64 { return s.WastedTimeSec }),
	"drowsy_time_sec":        byField(func(s models.StudySession) float64 { return s.DrowsyTimeSec }),
	"max_attention_span_sec": byField(func(s models.StudySession) float64 { return s.MaxAttentionSpanSec }),
	"avg_attention_span_sec": byField(func(s models.StudySession) float64 { return s.AvgAttentionSpanSec }),
	"wasted_percentage":      byField(func(s models.StudySession) float64 { return s.WastedPercentage }),
}

func byField(get func(models.StudySession) float64) func(a, b models.StudySession) int {
	return func(a, b models.StudySession) int {
		return cmp.Compare(get(a), get(b))
	}
}

// SortSafelist lists every accepted sort value, ascending and descending.
func SortSafelist() []string {
	fields := make([]string, 0, len(sortKeys))
	for k := range sortKeys {
		fields = append(fields, k)
	}
	slices.Sort(fields)

	list := []string{DefaultSort}
	for _, f := range fields {
		list = append(list, f)
		if "-"+f != DefaultSort {
			list = append(list, "-"+f)
		}
	}
	return list
}

// SortSessions returns a sorted copy. The sort is stable, so ties keep fetch order.
func SortSessions(sessions []models.StudySession, f models.Filters) []models.StudySession {
	compare, ok := sortKeys[f.SortColumn()]
	if !ok {
		compare = sortKeys["timestamp"]
	}
	desc := f.Descending()

	sorted := slices.Clone(sessions)
	slices.SortStableFunc(sorted, func(a, b models.StudySession) int {
		c := compare(a, b)
		if desc {
			return -c
		}
		return c
	})
	return sorted
}

// Paginate cuts one page out of sessions. A page past the end is empty.
func Paginate(sessions []models.StudySession, f models.Filters) ([]models.StudySession, models.Metadata) {
	start, end := f.Window(len(sessions))
	page := make([]models.StudySession, end-start)
	copy(page, sessions[start:end])
	return page, models.CalculateMetadata(len(sessions), f.Page, f.PageSize)
}
