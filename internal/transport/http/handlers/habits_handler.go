package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/service"
)

// HabitHandler serves the user's habit CRUD
type HabitHandler struct {
	habits   service.HabitService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewHabitHandler(habits service.HabitService, log zerolog.Logger) *HabitHandler {
	return &HabitHandler{habits: habits, validate: validator.New(), log: log}
}

// habitRequest carries a title and an optional HH:MM time.
// An unparseable time is not rejected: the service falls back.
type habitRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	TimeOfDay string `json:"time_of_day"`
}

func (h *HabitHandler) decode(w http.ResponseWriter, r *http.Request) (habitRequest, bool) {
	var body habitRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return body, false
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return body, false
	}
	return body, true
}

// List returns habits ordered by time of day, then title
// @Summary List habits
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} habitResponse
// @Router /api/v1/habits [get]
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	habits, err := h.habits.ListHabits(r.Context(), userID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	resp := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		resp = append(resp, toHabitResponse(habit))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a habit
// @Summary Create a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body habitRequest true "Habit"
// @Success 201 {object} habitResponse
// @Failure 400 {object} object{error=string,code=string}
// @Router /api/v1/habits [post]
func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	body, ok := h.decode(w, r)
	if !ok {
		return
	}

	habit, err := h.habits.CreateHabit(r.Context(), userID, body.Title, body.TimeOfDay)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHabitResponse(habit))
}

// Get returns one habit
// @Summary Get a habit
// @Tags habits
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 200 {object} habitResponse
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/habits/{id} [get]
func (h *HabitHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	habitID, ok := idParam(w, r)
	if !ok {
		return
	}

	habit, err := h.habits.GetHabit(r.Context(), userID, habitID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponse(habit))
}

// Update changes title and time; a bad time keeps the stored one
// @Summary Update a habit
// @Tags habits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Param request body habitRequest true "Habit"
// @Success 200 {object} habitResponse
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/habits/{id} [put]
func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	habitID, ok := idParam(w, r)
	if !ok {
		return
	}
	body, ok := h.decode(w, r)
	if !ok {
		return
	}

	habit, err := h.habits.UpdateHabit(r.Context(), userID, habitID, body.Title, body.TimeOfDay)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponse(habit))
}

// Delete removes a habit and its tasks
// @Summary Delete a habit
// @Tags habits
// @Security BearerAuth
// @Param id path string true "Habit ID"
// @Success 204
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/habits/{id} [delete]
func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	habitID, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.habits.DeleteHabit(r.Context(), userID, habitID); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
