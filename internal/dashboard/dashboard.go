// Package dashboard projects engine statuses into the single ranked view
// the household screen renders.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/status"
)

// Status is the simplified 3-way presentation state. It is a deliberate
// narrowing of the engine's 4-way state: due and upcoming both render as
// pending.
type Status string

const (
	StatusPending        Status = "pending"
	StatusCompletedToday Status = "completed_today"
	StatusOverdue        Status = "overdue"
)

// FromEngine maps engine state to presentation state.
func FromEngine(s status.EngineStatus) Status {
	switch s {
	case status.StatusCompleted:
		return StatusCompletedToday
	case status.StatusOverdue:
		return StatusOverdue
	default:
		return StatusPending
	}
}

// Item is the unified read-only projection of any completable thing.
type Item struct {
	ID                int64  `json:"id"`
	Type              string `json:"type"` // health, task, pet_care
	Name              string `json:"name"`
	Status            Status `json:"status"`
	Category          string `json:"category"`
	Person            string `json:"person,omitempty"`
	Pet               string `json:"pet,omitempty"`
	Notes             string `json:"notes,omitempty"`
	LastCompletedBy   string `json:"last_completed_by,omitempty"`
	LastCompletedDate string `json:"last_completed_date,omitempty"`
}

// Summary holds the headline counts. Pending counts everything not
// completed today, including upcoming items; it is not the same bucket as
// the engine's "due".
type Summary struct {
	TotalItems     int `json:"total_items"`
	CompletedToday int `json:"completed_today"`
	Pending        int `json:"pending"`
	Overdue        int `json:"overdue"`
}

// MealSummary reports meal-kit inventory separately from the item list.
type MealSummary struct {
	Delivered       []model.Meal `json:"delivered"`
	AvailableToCook int          `json:"available_to_cook"`
	CookedThisWeek  int          `json:"cooked_this_week"`
}

// Response is the complete dashboard payload.
type Response struct {
	Today   string      `json:"today"`
	Summary Summary     `json:"summary"`
	Items   []Item      `json:"items"`
	Meals   MealSummary `json:"meals"`
}

var statusPriority = map[Status]int{
	StatusOverdue:        0,
	StatusPending:        1,
	StatusCompletedToday: 2,
}

// Aggregate sorts items (overdue first, completed last, ties by type then
// case-insensitive name), computes the summary, and assembles the response.
func Aggregate(today time.Time, items []Item, meals MealSummary) *Response {
	sorted := make([]Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if statusPriority[a.Status] != statusPriority[b.Status] {
			return statusPriority[a.Status] < statusPriority[b.Status]
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})

	var summary Summary
	summary.TotalItems = len(sorted)
	for _, it := range sorted {
		switch it.Status {
		case StatusCompletedToday:
			summary.CompletedToday++
		case StatusOverdue:
			summary.Overdue++
		}
	}
	summary.Pending = summary.TotalItems - summary.CompletedToday

	return &Response{
		Today:   today.Format("2006-01-02"),
		Summary: summary,
		Items:   sorted,
		Meals:   meals,
	}
}

// Categorize infers a presentation category from an item name.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "feed") || strings.Contains(lower, "food"):
		return "feeding"
	case strings.Contains(lower, "treat"):
		return "treats"
	case strings.Contains(lower, "medication") || strings.Contains(lower, "medicine"):
		return "medication"
	case strings.Contains(lower, "bath") || strings.Contains(lower, "grooming"):
		return "grooming"
	default:
		return "other"
	}
}

// BuildMealSummary computes the meal inventory: delivered meals are
// available to cook, and cooked-this-week counts meals whose cooked
// timestamp falls within the trailing 7 days.
func BuildMealSummary(meals []model.Meal, now time.Time) MealSummary {
	weekAgo := now.AddDate(0, 0, -7)

	s := MealSummary{Delivered: []model.Meal{}}
	for _, m := range meals {
		if !m.IsActive {
			continue
		}
		switch m.Status {
		case model.MealStatusDelivered:
			s.Delivered = append(s.Delivered, m)
		case model.MealStatusCooked:
			if m.CookedAt != nil && !m.CookedAt.Before(weekAgo) {
				s.CookedThisWeek++
			}
		}
	}
	s.AvailableToCook = len(s.Delivered)
	return s
}
