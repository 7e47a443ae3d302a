package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
)

const dateLayout = "2006-01-02"

type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func scanActivity(scanner interface{ Scan(...any) error }) (*model.Activity, error) {
	var a model.Activity
	var assignedTo sql.NullInt64
	var dayOfWeek, dayOfMonth sql.NullInt64

	err := scanner.Scan(
		&a.ID, &a.Name, &a.Kind, &a.Category, &assignedTo,
		&a.Frequency, &dayOfWeek, &dayOfMonth,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assignedTo.Valid {
		a.AssignedTo = &assignedTo.Int64
	}
	if dayOfWeek.Valid {
		d := int(dayOfWeek.Int64)
		a.DayOfWeek = &d
	}
	if dayOfMonth.Valid {
		d := int(dayOfMonth.Int64)
		a.DayOfMonth = &d
	}
	return &a, nil
}

const activityCols = `id, name, kind, category, assigned_to, frequency, day_of_week, day_of_month, is_active, created_at, updated_at`

func (s *ActivityStore) Create(a model.Activity) (*model.Activity, error) {
	result, err := s.db.Exec(
		`INSERT INTO activities (name, kind, category, assigned_to, frequency, day_of_week, day_of_month) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Name, a.Kind, a.Category, nullInt64(a.AssignedTo), a.Frequency, nullInt(a.DayOfWeek), nullInt(a.DayOfMonth),
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ActivityStore) GetByID(id int64) (*model.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *ActivityStore) List() ([]model.Activity, error) {
	rows, err := s.db.Query(`SELECT ` + activityCols + ` FROM activities WHERE is_active = 1 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (s *ActivityStore) ListByKind(kind string) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE is_active = 1 AND kind = ? ORDER BY name ASC`,
		kind,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities by kind: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

func (s *ActivityStore) ListByAssignee(memberID int64) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE is_active = 1 AND assigned_to = ? ORDER BY name ASC`,
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities by assignee: %w", err)
	}
	defer rows.Close()
	return collectActivities(rows)
}

func collectActivities(rows *sql.Rows) ([]model.Activity, error) {
	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

func (s *ActivityStore) Update(id int64, a model.Activity) (*model.Activity, error) {
	_, err := s.db.Exec(
		`UPDATE activities SET name = ?, kind = ?, category = ?, assigned_to = ?, frequency = ?, day_of_week = ?, day_of_month = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		a.Name, a.Kind, a.Category, nullInt64(a.AssignedTo), a.Frequency, nullInt(a.DayOfWeek), nullInt(a.DayOfMonth), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return s.GetByID(id)
}

// Deactivate soft-deletes an activity. Its completion history stays.
func (s *ActivityStore) Deactivate(id int64) error {
	_, err := s.db.Exec(`UPDATE activities SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate activity: %w", err)
	}
	return nil
}

// Delete removes an activity and, through the foreign key cascade, all of
// its completions.
func (s *ActivityStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	return nil
}

// --- Completion methods ---

func scanActivityCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	var completedBy sql.NullInt64
	var completedDate string

	err := scanner.Scan(&c.ID, &c.ActivityID, &completedDate, &c.CompletedAt, &completedBy, &c.Notes)
	if err != nil {
		return nil, err
	}

	c.CompletedDate, err = time.Parse(dateLayout, completedDate)
	if err != nil {
		return nil, fmt.Errorf("parse completed_date %q: %w", completedDate, err)
	}
	if completedBy.Valid {
		c.CompletedBy = &completedBy.Int64
	}
	return &c, nil
}

const activityCompletionCols = `id, activity_id, completed_date, completed_at, completed_by, notes`

func (s *ActivityStore) CreateCompletion(activityID int64, completedDate time.Time, completedBy *int64, notes string) (*model.Completion, error) {
	result, err := s.db.Exec(
		`INSERT INTO completions (activity_id, completed_date, completed_by, notes) VALUES (?, ?, ?, ?)`,
		activityID, completedDate.Format(dateLayout), nullInt64(completedBy), notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert completion: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+activityCompletionCols+` FROM completions WHERE id = ?`, id)
	return scanActivityCompletion(row)
}

func (s *ActivityStore) DeleteCompletion(id int64) error {
	_, err := s.db.Exec(`DELETE FROM completions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete completion: %w", err)
	}
	return nil
}

// DeleteLatestCompletionOn removes the most recent completion recorded for
// the given day, the undo operation for a same-day double tap. Returns
// false when there was nothing to undo.
func (s *ActivityStore) DeleteLatestCompletionOn(activityID int64, day time.Time) (bool, error) {
	result, err := s.db.Exec(
		`DELETE FROM completions WHERE id = (
			SELECT id FROM completions
			WHERE activity_id = ? AND completed_date = ?
			ORDER BY completed_at DESC, id DESC LIMIT 1
		)`,
		activityID, day.Format(dateLayout),
	)
	if err != nil {
		return false, fmt.Errorf("undo completion: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *ActivityStore) ListCompletionsByActivity(activityID int64) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCompletionCols+` FROM completions WHERE activity_id = ? ORDER BY completed_date DESC, completed_at DESC`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

func (s *ActivityStore) ListCompletionsByDateRange(start, end time.Time) ([]model.Completion, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCompletionCols+` FROM completions WHERE completed_date >= ? AND completed_date <= ? ORDER BY completed_date DESC, completed_at DESC`,
		start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list completions by range: %w", err)
	}
	defer rows.Close()
	return collectCompletions(rows)
}

func collectCompletions(rows *sql.Rows) ([]model.Completion, error) {
	var completions []model.Completion
	for rows.Next() {
		c, err := scanActivityCompletion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		completions = append(completions, *c)
	}
	return completions, rows.Err()
}

// LatestCompletionOnOrBefore returns the completion with the greatest
// completed_date not after day, breaking date ties on completed_at.
func (s *ActivityStore) LatestCompletionOnOrBefore(activityID int64, day time.Time) (*model.Completion, error) {
	row := s.db.QueryRow(
		`SELECT `+activityCompletionCols+` FROM completions
		 WHERE activity_id = ? AND completed_date <= ?
		 ORDER BY completed_date DESC, completed_at DESC, id DESC LIMIT 1`,
		activityID, day.Format(dateLayout),
	)
	c, err := scanActivityCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completion: %w", err)
	}
	return c, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
