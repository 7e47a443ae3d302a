package model

import (
	"encoding/json"
	"time"
)

const (
	KindHealth  = "health"
	KindTask    = "task"
	KindPetCare = "pet_care"
)

// Activity is a recurring household obligation: a medication, a chore, or a
// pet-care item. The recurrence definition lives inline (one rule per
// activity) and is replaced wholesale on update.
type Activity struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Category   string    `json:"category,omitempty"`
	AssignedTo *int64    `json:"assigned_to"`
	Frequency  string    `json:"frequency"`
	DayOfWeek  *int      `json:"day_of_week,omitempty"`
	DayOfMonth *int      `json:"day_of_month,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Completion records one satisfaction of an activity. Several may exist for
// the same date ("second treat"); deleting one is the undo operation.
type Completion struct {
	ID            int64     `json:"id"`
	ActivityID    int64     `json:"activity_id"`
	CompletedDate time.Time `json:"-"`
	CompletedAt   time.Time `json:"completed_at"`
	CompletedBy   *int64    `json:"completed_by"`
	Notes         string    `json:"notes,omitempty"`
}

// MarshalJSON renders completed_date as a plain YYYY-MM-DD string.
func (c Completion) MarshalJSON() ([]byte, error) {
	type alias Completion
	return json.Marshal(struct {
		alias
		CompletedDate string `json:"completed_date"`
	}{
		alias:         alias(c),
		CompletedDate: c.CompletedDate.Format("2006-01-02"),
	})
}
