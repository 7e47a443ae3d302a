package model

import "time"

const (
	MealStatusOrdered   = "ordered"
	MealStatusDelivered = "delivered"
	MealStatusCooked    = "cooked"
)

// Meal is one meal-kit delivery, tracked through ordered -> delivered ->
// cooked. Delivered meals are the "available to cook" inventory.
type Meal struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	WeekOf       time.Time  `json:"week_of"` // Monday of the delivery week
	RecipeURL    string     `json:"recipe_url,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	Status       string     `json:"status"`
	CookedAt     *time.Time `json:"cooked_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// MealRecord captures who cooked a meal and when.
type MealRecord struct {
	ID         int64     `json:"id"`
	MealID     int64     `json:"meal_id"`
	CookedBy   *int64    `json:"cooked_by"`
	CookedDate time.Time `json:"cooked_date"`
	CookedAt   time.Time `json:"cooked_at"`
	Notes      string    `json:"notes,omitempty"`
}
