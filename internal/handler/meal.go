package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mseewaters/kitchen-tracker/internal/model"
	"github.com/mseewaters/kitchen-tracker/internal/store"
	"github.com/mseewaters/kitchen-tracker/internal/websocket"
)

type MealHandler struct {
	meals   *store.MealStore
	members *store.MemberStore
	hub     *websocket.Hub
	locale  *Locale
	logger  *slog.Logger
}

func NewMealHandler(ms *store.MealStore, members *store.MemberStore, hub *websocket.Hub, locale *Locale, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: ms, members: members, hub: hub, locale: locale, logger: logger}
}

func (h *MealHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type mealRequest struct {
	Name         string `json:"name"`
	WeekOf       string `json:"week_of"`
	RecipeURL    string `json:"recipe_url"`
	DeliveryDate string `json:"delivery_date"`
}

func (req *mealRequest) validate() (*time.Time, string) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, "name is required"
	}
	if req.WeekOf == "" {
		return nil, "week_of is required"
	}
	if _, err := time.Parse("2006-01-02", req.WeekOf); err != nil {
		return nil, "week_of must be YYYY-MM-DD"
	}
	if req.DeliveryDate == "" {
		return nil, ""
	}
	d, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		return nil, "delivery_date must be YYYY-MM-DD"
	}
	return &d, ""
}

func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	deliveryDate, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meal, err := h.meals.Create(req.Name, req.WeekOf, req.RecipeURL, deliveryDate)
	if err != nil {
		h.logger.Error("create meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create meal")
		return
	}

	h.broadcast(websocket.NewMessage("meal", "created", meal.ID, nil))
	writeJSON(w, http.StatusCreated, meal)
}

func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		meals []model.Meal
		err   error
	)
	if week := r.URL.Query().Get("week_of"); week != "" {
		meals, err = h.meals.ListByWeek(week)
	} else {
		meals, err = h.meals.List()
	}
	if err != nil {
		h.logger.Error("list meals", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meals")
		return
	}
	if meals == nil {
		meals = []model.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	meal, err := h.meals.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if meal == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.meals.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	deliveryDate, msg := req.validate()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	meal, err := h.meals.Update(id, req.Name, req.WeekOf, req.RecipeURL, deliveryDate)
	if err != nil {
		h.logger.Error("update meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update meal")
		return
	}

	h.broadcast(websocket.NewMessage("meal", "updated", meal.ID, nil))
	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.meals.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}

	if err := h.meals.Deactivate(id); err != nil {
		h.logger.Error("deactivate meal", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete meal")
		return
	}

	h.broadcast(websocket.NewMessage("meal", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

type deliveredRequest struct {
	DeliveryDate string `json:"delivery_date"`
}

// MarkDelivered moves an ordered meal to delivered.
func (h *MealHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.meals.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	if existing.Status == model.MealStatusCooked {
		writeError(w, http.StatusConflict, "meal already cooked")
		return
	}

	var req deliveredRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	deliveryDate := h.locale.Today()
	if req.DeliveryDate != "" {
		deliveryDate, err = time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "delivery_date must be YYYY-MM-DD")
			return
		}
	}

	meal, err := h.meals.MarkDelivered(id, deliveryDate)
	if err != nil {
		h.logger.Error("mark delivered", "meal_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark delivered")
		return
	}

	h.broadcast(websocket.NewMessage("meal", "delivered", id, nil))
	writeJSON(w, http.StatusOK, meal)
}

type cookedRequest struct {
	CookedBy *int64 `json:"cooked_by"`
	Notes    string `json:"notes"`
}

// MarkCooked moves a delivered meal to cooked and records the cook.
func (h *MealHandler) MarkCooked(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.meals.GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get meal")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	if existing.Status != model.MealStatusDelivered {
		writeError(w, http.StatusConflict, "meal must be delivered before cooking")
		return
	}

	var req cookedRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	if req.CookedBy != nil {
		member, err := h.members.GetByID(*req.CookedBy)
		if err != nil || member == nil {
			writeError(w, http.StatusBadRequest, "cooking member not found")
			return
		}
	}

	meal, err := h.meals.MarkCooked(id, h.locale.Now(), req.CookedBy, req.Notes)
	if err != nil {
		h.logger.Error("mark cooked", "meal_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark cooked")
		return
	}

	h.broadcast(websocket.NewMessage("meal", "cooked", id, nil))
	writeJSON(w, http.StatusOK, meal)
}

func (h *MealHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	records, err := h.meals.ListRecords(id)
	if err != nil {
		h.logger.Error("list meal records", "meal_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list meal records")
		return
	}
	if records == nil {
		records = []model.MealRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
