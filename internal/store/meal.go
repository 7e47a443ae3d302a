package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
)

type MealStore struct {
	db *sql.DB
}

func NewMealStore(db *sql.DB) *MealStore {
	return &MealStore{db: db}
}

func scanMeal(scanner interface{ Scan(...any) error }) (*model.Meal, error) {
	var m model.Meal
	var weekOf string
	var deliveryDate sql.NullString
	var cookedAt sql.NullTime

	err := scanner.Scan(
		&m.ID, &m.Name, &weekOf, &m.RecipeURL, &deliveryDate,
		&m.Status, &cookedAt, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.WeekOf, err = time.Parse(dateLayout, weekOf)
	if err != nil {
		return nil, fmt.Errorf("parse week_of %q: %w", weekOf, err)
	}
	if deliveryDate.Valid {
		d, err := time.Parse(dateLayout, deliveryDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse delivery_date %q: %w", deliveryDate.String, err)
		}
		m.DeliveryDate = &d
	}
	if cookedAt.Valid {
		m.CookedAt = &cookedAt.Time
	}
	return &m, nil
}

const mealCols = `id, name, week_of, recipe_url, delivery_date, status, cooked_at, is_active, created_at, updated_at`

func (s *MealStore) Create(name, weekOf, recipeURL string, deliveryDate *time.Time) (*model.Meal, error) {
	var dd sql.NullString
	if deliveryDate != nil {
		dd = sql.NullString{String: deliveryDate.Format(dateLayout), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO meals (name, week_of, recipe_url, delivery_date) VALUES (?, ?, ?, ?)`,
		name, weekOf, recipeURL, dd,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealStore) GetByID(id int64) (*model.Meal, error) {
	row := s.db.QueryRow(`SELECT `+mealCols+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

func (s *MealStore) List() ([]model.Meal, error) {
	rows, err := s.db.Query(`SELECT ` + mealCols + ` FROM meals WHERE is_active = 1 ORDER BY week_of DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()
	return collectMeals(rows)
}

func (s *MealStore) ListByWeek(weekOf string) ([]model.Meal, error) {
	rows, err := s.db.Query(
		`SELECT `+mealCols+` FROM meals WHERE is_active = 1 AND week_of = ? ORDER BY name ASC`,
		weekOf,
	)
	if err != nil {
		return nil, fmt.Errorf("list meals by week: %w", err)
	}
	defer rows.Close()
	return collectMeals(rows)
}

func collectMeals(rows *sql.Rows) ([]model.Meal, error) {
	var meals []model.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}

func (s *MealStore) Update(id int64, name, weekOf, recipeURL string, deliveryDate *time.Time) (*model.Meal, error) {
	var dd sql.NullString
	if deliveryDate != nil {
		dd = sql.NullString{String: deliveryDate.Format(dateLayout), Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE meals SET name = ?, week_of = ?, recipe_url = ?, delivery_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, weekOf, recipeURL, dd, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update meal: %w", err)
	}
	return s.GetByID(id)
}

// MarkDelivered moves a meal from ordered to delivered.
func (s *MealStore) MarkDelivered(id int64, deliveryDate time.Time) (*model.Meal, error) {
	_, err := s.db.Exec(
		`UPDATE meals SET status = ?, delivery_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.MealStatusDelivered, deliveryDate.Format(dateLayout), id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark delivered: %w", err)
	}
	return s.GetByID(id)
}

// MarkCooked moves a meal to cooked and records who cooked it.
func (s *MealStore) MarkCooked(id int64, cookedAt time.Time, cookedBy *int64, notes string) (*model.Meal, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE meals SET status = ?, cooked_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		model.MealStatusCooked, cookedAt.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("mark cooked: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO meal_records (meal_id, cooked_by, cooked_date, notes) VALUES (?, ?, ?, ?)`,
		id, nullInt64(cookedBy), cookedAt.Format(dateLayout), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert meal record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *MealStore) Deactivate(id int64) error {
	_, err := s.db.Exec(`UPDATE meals SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate meal: %w", err)
	}
	return nil
}

// --- Meal record methods ---

func scanMealRecord(scanner interface{ Scan(...any) error }) (*model.MealRecord, error) {
	var r model.MealRecord
	var cookedBy sql.NullInt64
	var cookedDate string

	err := scanner.Scan(&r.ID, &r.MealID, &cookedBy, &cookedDate, &r.CookedAt, &r.Notes)
	if err != nil {
		return nil, err
	}

	r.CookedDate, err = time.Parse(dateLayout, cookedDate)
	if err != nil {
		return nil, fmt.Errorf("parse cooked_date %q: %w", cookedDate, err)
	}
	if cookedBy.Valid {
		r.CookedBy = &cookedBy.Int64
	}
	return &r, nil
}

const mealRecordCols = `id, meal_id, cooked_by, cooked_date, cooked_at, notes`

func (s *MealStore) ListRecords(mealID int64) ([]model.MealRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+mealRecordCols+` FROM meal_records WHERE meal_id = ? ORDER BY cooked_at DESC`,
		mealID,
	)
	if err != nil {
		return nil, fmt.Errorf("list meal records: %w", err)
	}
	defer rows.Close()

	var records []model.MealRecord
	for rows.Next() {
		r, err := scanMealRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}
