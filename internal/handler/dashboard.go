package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/dashboard"
	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/status"
	"github.com/mseewaters/kitchen-tracker/internal/store"
)

const defaultTrendDays = 7

type DashboardHandler struct {
	activities *store.ActivityStore
	members    *store.MemberStore
	meals      *store.MealStore
	locale     *Locale
	logger     *slog.Logger
}

func NewDashboardHandler(as *store.ActivityStore, ms *store.MemberStore, meals *store.MealStore, locale *Locale, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{activities: as, members: ms, meals: meals, locale: locale, logger: logger}
}

// Get assembles the full household dashboard: every active activity run
// through the status engine, plus the meal summary.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	day := h.locale.Today()

	items, err := h.buildItems(day)
	if err != nil {
		h.logger.Error("build dashboard items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	meals, err := h.meals.List()
	if err != nil {
		h.logger.Error("list meals for dashboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build dashboard")
		return
	}

	resp := dashboard.Aggregate(day, items, dashboard.BuildMealSummary(meals, day))
	writeJSON(w, http.StatusOK, resp)
}

// Overdue returns only the items that have slipped past their window.
func (h *DashboardHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	day := h.locale.Today()

	items, err := h.buildItems(day)
	if err != nil {
		h.logger.Error("build overdue items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build overdue list")
		return
	}

	overdue := make([]dashboard.Item, 0)
	for _, item := range items {
		if item.Status == dashboard.StatusOverdue {
			overdue = append(overdue, item)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":  day.Format("2006-01-02"),
		"count": len(overdue),
		"items": overdue,
	})
}

func (h *DashboardHandler) buildItems(day time.Time) ([]dashboard.Item, error) {
	activities, err := h.activities.List()
	if err != nil {
		return nil, err
	}

	memberNames, memberTypes, err := h.memberIndex()
	if err != nil {
		return nil, err
	}

	items := make([]dashboard.Item, 0, len(activities))
	for _, a := range activities {
		rule, err := status.RuleFor(a)
		if err != nil {
			h.logger.Warn("skip activity with bad recurrence", "activity_id", a.ID, "error", err)
			continue
		}

		latest, err := h.activities.LatestCompletionOnOrBefore(a.ID, day)
		if err != nil {
			return nil, err
		}
		var last *time.Time
		if latest != nil {
			last = &latest.CompletedDate
		}
		report := status.Compute(rule, last, day)

		item := dashboard.Item{
			ID:       a.ID,
			Type:     a.Kind,
			Name:     a.Name,
			Status:   dashboard.FromEngine(report.Status),
			Category: a.Category,
		}
		if item.Category == "" {
			item.Category = dashboard.Categorize(a.Name)
		}
		if a.AssignedTo != nil {
			switch memberTypes[*a.AssignedTo] {
			case model.MemberTypePet:
				item.Pet = memberNames[*a.AssignedTo]
			default:
				item.Person = memberNames[*a.AssignedTo]
			}
		}
		if latest != nil {
			item.LastCompletedDate = latest.CompletedDate.Format("2006-01-02")
			item.Notes = latest.Notes
			if latest.CompletedBy != nil {
				item.LastCompletedBy = memberNames[*latest.CompletedBy]
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// memberIndex maps member ID to name and type, inactive members
// included so history keeps its attribution.
func (h *DashboardHandler) memberIndex() (map[int64]string, map[int64]string, error) {
	members, err := h.members.ListAll()
	if err != nil {
		return nil, nil, err
	}
	names := make(map[int64]string, len(members))
	types := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
		types[m.ID] = m.MemberType
	}
	return names, types, nil
}

// Trends tallies completions per category over a trailing window.
func (h *DashboardHandler) Trends(w http.ResponseWriter, r *http.Request) {
	days := defaultTrendDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeError(w, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = n
	}

	day := h.locale.Today()
	start := day.AddDate(0, 0, -(days - 1))

	completions, err := h.activities.ListCompletionsByDateRange(start, day)
	if err != nil {
		h.logger.Error("list completions for trends", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build trends")
		return
	}

	categoryByActivity, err := h.categoryIndex()
	if err != nil {
		h.logger.Error("index activity categories", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build trends")
		return
	}

	byCategory := make(map[string][]time.Time)
	for _, c := range completions {
		cat, ok := categoryByActivity[c.ActivityID]
		if !ok {
			continue
		}
		byCategory[cat] = append(byCategory[cat], c.CompletedDate)
	}

	categories := make([]dashboard.CategoryCompletions, 0, len(byCategory))
	for cat, dates := range byCategory {
		categories = append(categories, dashboard.CategoryCompletions{Category: cat, Completions: dates})
	}

	writeJSON(w, http.StatusOK, dashboard.Trends(day, days, categories))
}

func (h *DashboardHandler) categoryIndex() (map[int64]string, error) {
	activities, err := h.activities.List()
	if err != nil {
		return nil, err
	}
	index := make(map[int64]string, len(activities))
	for _, a := range activities {
		cat := a.Category
		if cat == "" {
			cat = dashboard.Categorize(a.Name)
		}
		index[a.ID] = cat
	}
	return index, nil
}
