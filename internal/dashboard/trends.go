package dashboard

import (
	"encoding/json"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
)

// CategoryCompletions is the already-loaded completion history for one
// category: every completion date, duplicates included (two treats on one
// day count twice).
type CategoryCompletions struct {
	Category    string
	Completions []time.Time
}

// TrendPoint is the tally for one day.
type TrendPoint struct {
	Date       time.Time
	Total      int
	ByCategory map[string]int
}

// MarshalJSON flattens category counts into "<category>_completions" keys
// alongside date and total_completions.
func (p TrendPoint) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"date":              p.Date.Format("2006-01-02"),
		"total_completions": p.Total,
	}
	for cat, n := range p.ByCategory {
		out[cat+"_completions"] = n
	}
	return json.Marshal(out)
}

// TrendReport covers the trailing period, most recent day first.
type TrendReport struct {
	PeriodDays int          `json:"period_days"`
	Trends     []TrendPoint `json:"trends"`
}

// Trends walks back over the last days days (today included) and counts
// completions per category and in total for each day.
func Trends(today time.Time, days int, categories []CategoryCompletions) TrendReport {
	today = recurrence.StartOfDay(today)

	report := TrendReport{PeriodDays: days, Trends: make([]TrendPoint, 0, days)}
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)

		point := TrendPoint{Date: day, ByCategory: make(map[string]int, len(categories))}
		for _, cat := range categories {
			n := 0
			for _, c := range cat.Completions {
				if recurrence.StartOfDay(c).Equal(day) {
					n++
				}
			}
			point.ByCategory[cat.Category] = n
			point.Total += n
		}
		report.Trends = append(report.Trends, point)
	}
	return report
}
