package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/recurrence"
	"github.com/mseewaters/kitchen-tracker/internal/status"
	"github.com/mseewaters/kitchen-tracker/internal/store"
	"github.com/mseewaters/kitchen-tracker/internal/websocket"
)

type ActivityHandler struct {
	activities *store.ActivityStore
	members    *store.MemberStore
	hub        *websocket.Hub
	locale     *Locale
	logger     *slog.Logger
}

func NewActivityHandler(as *store.ActivityStore, ms *store.MemberStore, hub *websocket.Hub, locale *Locale, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{activities: as, members: ms, hub: hub, locale: locale, logger: logger}
}

func (h *ActivityHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type activityRequest struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Category   string `json:"category"`
	AssignedTo *int64 `json:"assigned_to"`
	Frequency  string `json:"frequency"`
	DayOfWeek  *int   `json:"day_of_week"`
	DayOfMonth *int   `json:"day_of_month"`
}

func validKind(kind string) bool {
	switch kind {
	case model.KindHealth, model.KindTask, model.KindPetCare:
		return true
	}
	return false
}

// validate checks the request and returns the activity to store, or a
// message describing what is wrong.
func (h *ActivityHandler) validate(req *activityRequest) (model.Activity, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return model.Activity{}, "name is required"
	}
	if !validKind(req.Kind) {
		return model.Activity{}, "kind must be health, task, or pet_care"
	}

	if _, err := recurrence.New(req.Frequency, recurrence.Config{
		DayOfWeek:  req.DayOfWeek,
		DayOfMonth: req.DayOfMonth,
	}); err != nil {
		return model.Activity{}, err.Error()
	}

	if req.AssignedTo != nil {
		member, err := h.members.GetByID(*req.AssignedTo)
		if err != nil || member == nil {
			return model.Activity{}, "assigned member not found"
		}
	}

	category := req.Category
	if category == "" {
		category = "other"
	}

	return model.Activity{
		Name:       req.Name,
		Kind:       req.Kind,
		Category:   category,
		AssignedTo: req.AssignedTo,
		Frequency:  req.Frequency,
		DayOfWeek:  req.DayOfWeek,
		DayOfMonth: req.DayOfMonth,
	}, ""
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.activities.Create(a)
	if err != nil {
		h.logger.Error("create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "created", created.ID, nil))
	writeJSON(w, http.StatusCreated, created)
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		activities []model.Activity
		err        error
	)
	if kind := r.URL.Query().Get("kind"); kind != "" {
		activities, err = h.activities.ListByKind(kind)
	} else {
		activities, err = h.activities.List()
	}
	if err != nil {
		h.logger.Error("list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	a, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	a, msg := h.validate(&req)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.activities.Update(id, a)
	if err != nil {
		h.logger.Error("update activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "updated", updated.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	if err := h.activities.Deactivate(id); err != nil {
		h.logger.Error("deactivate activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// Status reports where one activity stands today: engine status, due
// flags, and the projected next due date.
func (h *ActivityHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	report, err := h.statusFor(a)
	if err != nil {
		var invalid recurrence.ErrInvalidFrequency
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("compute status", "activity_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute status")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ActivityHandler) statusFor(a *model.Activity) (status.Report, error) {
	rule, err := status.RuleFor(*a)
	if err != nil {
		return status.Report{}, err
	}

	completions, err := h.activities.ListCompletionsByActivity(a.ID)
	if err != nil {
		return status.Report{}, err
	}

	day := h.locale.Today()
	latest := status.History(completions).LatestOnOrBefore(day)

	var last *time.Time
	if latest != nil {
		last = &latest.CompletedDate
	}
	report := status.Compute(rule, last, day)

	if latest != nil && latest.CompletedBy != nil {
		if member, err := h.members.GetByID(*latest.CompletedBy); err == nil && member != nil {
			report.LastCompletedBy = member.Name
		}
	}
	return report, nil
}

type completeRequest struct {
	CompletedBy *int64 `json:"completed_by"`
	Date        string `json:"date"`
	Notes       string `json:"notes"`
}

// Complete records a completion for the activity, by default dated today.
func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	var req completeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	day := h.locale.Today()
	if req.Date != "" {
		day, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	if req.CompletedBy != nil {
		member, err := h.members.GetByID(*req.CompletedBy)
		if err != nil || member == nil {
			writeError(w, http.StatusBadRequest, "completing member not found")
			return
		}
	}

	completion, err := h.activities.CreateCompletion(id, day, req.CompletedBy, req.Notes)
	if err != nil {
		h.logger.Error("create completion", "activity_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "completed", id, nil))
	writeJSON(w, http.StatusCreated, completion)
}

// UndoComplete removes today's most recent completion so an accidental
// tap can be reversed.
func (h *ActivityHandler) UndoComplete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.activities.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	undone, err := h.activities.DeleteLatestCompletionOn(id, h.locale.Today())
	if err != nil {
		h.logger.Error("undo completion", "activity_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to undo completion")
		return
	}
	if !undone {
		writeError(w, http.StatusNotFound, "no completion today to undo")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "uncompleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCompletion removes a specific completion from the history.
func (h *ActivityHandler) DeleteCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	completionID, err := strconv.ParseInt(r.PathValue("completionID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid completion id")
		return
	}

	if err := h.activities.DeleteCompletion(completionID); err != nil {
		h.logger.Error("delete completion", "activity_id", id, "completion_id", completionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete completion")
		return
	}

	h.broadcast(websocket.NewMessage("activity", "uncompleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ActivityHandler) ListCompletions(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	completions, err := h.activities.ListCompletionsByActivity(id)
	if err != nil {
		h.logger.Error("list completions", "activity_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list completions")
		return
	}
	if completions == nil {
		completions = []model.Completion{}
	}
	writeJSON(w, http.StatusOK, completions)
}
