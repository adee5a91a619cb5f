package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
	servicepkg "habit-tracker/internal/service"
	"habit-tracker/internal/transport/http/middleware"
)

// TaskHandler serves daily tasks and the dashboard
type TaskHandler struct {
	tasks service.TaskService
	clock Clock
	log   zerolog.Logger
}

func NewTaskHandler(tasks service.TaskService, clock Clock, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, clock: clock, log: log}
}

// List returns tasks for ?date=, or for ?start=&end= inclusive; today when neither is given
// @Summary List daily tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param date query string false "Single date YYYY-MM-DD"
// @Param start query string false "Range start YYYY-MM-DD"
// @Param end query string false "Range end YYYY-MM-DD"
// @Success 200 {array} taskResponse
// @Failure 400 {object} object{error=string,code=string}
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var (
		tasks []*entity.DailyTask
		err   error
	)
	if q.Get("start") != "" || q.Get("end") != "" {
		start, perr := servicepkg.ParseDate(q.Get("start"))
		if perr != nil {
			writeServiceErr(w, h.log, perr)
			return
		}
		end, perr := servicepkg.ParseDate(q.Get("end"))
		if perr != nil {
			writeServiceErr(w, h.log, perr)
			return
		}
		tasks, err = h.tasks.ListByRange(r.Context(), userID, start, end)
	} else {
		date, perr := dateParam(r, "date", h.clock.today())
		if perr != nil {
			writeServiceErr(w, h.log, perr)
			return
		}
		tasks, err = h.tasks.ListByDate(r.Context(), userID, date)
	}
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

// Generate materializes the caller's tasks for one date (default today)
// @Summary Generate daily tasks
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{date=string} false "Date YYYY-MM-DD"
// @Success 200 {object} object{date=string,tasks=[]taskResponse}
// @Failure 400 {object} object{error=string,code=string}
// @Router /api/v1/tasks/generate [post]
func (h *TaskHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}

	date := h.clock.today()
	if body.Date != "" {
		parsed, err := servicepkg.ParseDate(body.Date)
		if err != nil {
			writeServiceErr(w, h.log, err)
			return
		}
		date = parsed
	}

	tasks, err := h.tasks.Materialize(r.Context(), userID, date)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  date.Format(entity.DateLayout),
		"tasks": toTaskResponses(tasks),
	})
}

// Toggle flips completion of one task
// @Summary Toggle a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} object{is_done=bool,task=taskResponse}
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := idParam(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleDone(r.Context(), taskID, userID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	middleware.RecordToggle(task.IsDone)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"is_done": task.IsDone,
		"task":    toTaskResponse(task),
	})
}

// Get returns one task
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} taskResponse
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := idParam(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), taskID, userID)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// Delete removes one task
// @Summary Delete a task
// @Tags tasks
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} object{error=string,code=string}
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	taskID, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), taskID, userID); err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns today's tasks plus every task grouped by date, newest first
// @Summary Dashboard
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param today query string false "Current date YYYY-MM-DD"
// @Success 200 {object} dashboardResponse
// @Router /api/v1/dashboard [get]
func (h *TaskHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	today, err := dateParam(r, "today", h.clock.today())
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}

	dash, err := h.tasks.Dashboard(r.Context(), userID, today)
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(dash))
}
