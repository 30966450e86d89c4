package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/service"
)

type habitHandler struct {
	habitService *service.HabitService
}

func NewHabitHandler(habitService *service.HabitService) *habitHandler {
	return &habitHandler{
		habitService: habitService,
	}
}

type habitResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Frequency string    `json:"frequency"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newHabitResponse(habit *model.Habit) habitResponse {
	return habitResponse{
		ID:        habit.ID,
		Name:      habit.Name,
		Frequency: habit.Frequency,
		Active:    habit.Active,
		CreatedAt: habit.CreatedAt,
		UpdatedAt: habit.UpdatedAt,
	}
}

type analyticsResponse struct {
	HabitID          string     `json:"habit_id"`
	TotalCompletions int        `json:"total_completions"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastCompleted    *time.Time `json:"last_completed"`
}

func newAnalyticsResponse(a *model.HabitAnalytics) analyticsResponse {
	return analyticsResponse{
		HabitID:          a.HabitID,
		TotalCompletions: a.TotalCompletions,
		CurrentStreak:    a.CurrentStreak,
		LongestStreak:    a.LongestStreak,
		LastCompleted:    a.LastCompleted,
	}
}

func (h *habitHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.Habits(user.ID)
	if err != nil {
		slog.Error("failed to list habits", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load habits")
		return
	}

	out := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		out = append(out, newHabitResponse(habit))
	}
	writeJSON(w, http.StatusOK, map[string]any{"habits": out})
}

func (h *habitHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Name      string `json:"name"`
		Frequency string `json:"frequency"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	habit, err := h.habitService.Create(user.ID, req.Name, req.Frequency)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHabitNameEmpty),
			errors.Is(err, service.ErrInvalidFrequency):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to create habit", "error", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "Failed to create habit")
		}
		return
	}

	slog.Info("habit created", "habit_id", habit.ID, "user_id", user.ID)
	writeJSON(w, http.StatusCreated, newHabitResponse(habit))
}

func (h *habitHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	habit, err := h.habitService.ByID(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to load habit")
		return
	}

	writeJSON(w, http.StatusOK, newHabitResponse(habit))
}

func (h *habitHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req struct {
		Name      string `json:"name"`
		Frequency string `json:"frequency"`
		Active    bool   `json:"active"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.habitService.Update(user.ID, habitID, req.Name, req.Frequency, req.Active)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHabitNameEmpty),
			errors.Is(err, service.ErrInvalidFrequency):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.habitError(w, err, user.ID, habitID, "Failed to update habit")
		}
		return
	}

	habit, err := h.habitService.ByID(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to load habit")
		return
	}
	writeJSON(w, http.StatusOK, newHabitResponse(habit))
}

func (h *habitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	err := h.habitService.Delete(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to delete habit")
		return
	}

	slog.Info("habit deleted", "habit_id", habitID, "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Complete records a completion for the habit. A missing completed_at means
// now; the response carries the updated analytics either way.
func (h *habitHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	completedAt := time.Now()
	if r.ContentLength > 0 {
		var req struct {
			CompletedAt *time.Time `json:"completed_at"`
		}
		err := decodeJSON(r, &req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.CompletedAt != nil {
			completedAt = *req.CompletedAt
		}
	}

	analytics, err := h.habitService.Complete(user.ID, habitID, completedAt)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to record completion")
		return
	}

	writeJSON(w, http.StatusOK, newAnalyticsResponse(analytics))
}

func (h *habitHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	analytics, err := h.habitService.Analytics(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to load analytics")
		return
	}

	writeJSON(w, http.StatusOK, newAnalyticsResponse(analytics))
}

func (h *habitHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	err := h.habitService.ResetHistory(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to reset history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "history reset"})
}

func (h *habitHandler) Completions(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	completions, err := h.habitService.Completions(user.ID, habitID, limit)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to load completions")
		return
	}

	type completionResponse struct {
		ID          string    `json:"id"`
		CompletedAt time.Time `json:"completed_at"`
	}
	out := make([]completionResponse, 0, len(completions))
	for _, c := range completions {
		out = append(out, completionResponse{ID: c.ID, CompletedAt: c.CompletedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"completions": out})
}

type reminderResponse struct {
	ID           string `json:"id"`
	ReminderTime string `json:"reminder_time"`
	Message      string `json:"message"`
}

func (h *habitHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	reminders, err := h.habitService.Reminders(user.ID, habitID)
	if err != nil {
		h.habitError(w, err, user.ID, habitID, "Failed to load reminders")
		return
	}

	out := make([]reminderResponse, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, reminderResponse{ID: rem.ID, ReminderTime: rem.ReminderTime, Message: rem.Message})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reminders": out})
}

func (h *habitHandler) AddReminder(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	habitID := r.PathValue("id")

	var req struct {
		ReminderTime string `json:"reminder_time"`
		Message      string `json:"message"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reminder, err := h.habitService.AddReminder(user.ID, habitID, req.ReminderTime, req.Message)
	if err != nil {
		if errors.Is(err, repository.ErrHabitNotFound) {
			writeError(w, http.StatusNotFound, "Habit not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, reminderResponse{ID: reminder.ID, ReminderTime: reminder.ReminderTime, Message: reminder.Message})
}

// habitError maps a repository not-found onto a 404, everything else onto a
// logged 500.
func (h *habitHandler) habitError(w http.ResponseWriter, err error, userID, habitID, message string) {
	if errors.Is(err, repository.ErrHabitNotFound) {
		writeError(w, http.StatusNotFound, "Habit not found")
		return
	}
	slog.Error("habit request failed", "error", err, "user_id", userID, "habit_id", habitID)
	writeError(w, http.StatusInternalServerError, message)
}
