package handlers

import (
	"time"

	"habit-tracker/internal/domain/entity"
	"habit-tracker/internal/domain/service"
)

type habitResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TimeOfDay string    `json:"time_of_day"`
	CreatedAt time.Time `json:"created_at"`
}

func toHabitResponse(h *entity.Habit) habitResponse {
	return habitResponse{
		ID:        h.ID.String(),
		Title:     h.Title,
		TimeOfDay: h.TimeOfDay.String(),
		CreatedAt: h.CreatedAt,
	}
}

type taskResponse struct {
	ID         string `json:"id"`
	HabitID    string `json:"habit_id"`
	HabitTitle string `json:"habit_title"`
	HabitTime  string `json:"habit_time"`
	Date       string `json:"date"`
	IsDone     bool   `json:"is_done"`
}

func toTaskResponse(t *entity.DailyTask) taskResponse {
	return taskResponse{
		ID:         t.ID.String(),
		HabitID:    t.HabitID.String(),
		HabitTitle: t.HabitTitle,
		HabitTime:  t.HabitTime.String(),
		Date:       t.Date.Format(entity.DateLayout),
		IsDone:     t.IsDone,
	}
}

func toTaskResponses(tasks []*entity.DailyTask) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

type statsResponse struct {
	Total      int     `json:"total"`
	Completed  int     `json:"completed"`
	Percentage float64 `json:"percentage"`
}

func toStatsResponse(s entity.Stats) statsResponse {
	return statsResponse{Total: s.Total, Completed: s.Completed, Percentage: s.Percentage}
}

type dayStatsResponse struct {
	Date string `json:"date"`
	statsResponse
}

type summaryResponse struct {
	Today     statsResponse      `json:"today"`
	Week      statsResponse      `json:"week"`
	Month     statsResponse      `json:"month"`
	Last7Days []dayStatsResponse `json:"last_7_days"`
}

func toSummaryResponse(s *entity.Summary) summaryResponse {
	resp := summaryResponse{
		Today:     toStatsResponse(s.Today),
		Week:      toStatsResponse(s.Week),
		Month:     toStatsResponse(s.Month),
		Last7Days: make([]dayStatsResponse, 0, len(s.Last7Days)),
	}
	for _, d := range s.Last7Days {
		resp.Last7Days = append(resp.Last7Days, dayStatsResponse{
			Date:          d.Date.Format(entity.DateLayout),
			statsResponse: toStatsResponse(d.Stats),
		})
	}
	return resp
}

type dayGroupResponse struct {
	Date  string         `json:"date"`
	Tasks []taskResponse `json:"tasks"`
}

type dashboardResponse struct {
	Today      string             `json:"today"`
	TodayTasks []taskResponse     `json:"today_tasks"`
	Days       []dayGroupResponse `json:"days"`
}

func toDashboardResponse(d *service.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Today:      d.Today.Format(entity.DateLayout),
		TodayTasks: toTaskResponses(d.TodayTasks),
		Days:       make([]dayGroupResponse, 0, len(d.Days)),
	}
	for _, g := range d.Days {
		resp.Days = append(resp.Days, dayGroupResponse{
			Date:  g.Date.Format(entity.DateLayout),
			Tasks: toTaskResponses(g.Tasks),
		})
	}
	return resp
}
