package handler

import (
	"log/slog"
	"net/http"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/service"
)

type dashboardHandler struct {
	habitService        *service.HabitService
	notificationService *service.NotificationService
}

func NewDashboardHandler(habitService *service.HabitService, notificationService *service.NotificationService) *dashboardHandler {
	return &dashboardHandler{
		habitService:        habitService,
		notificationService: notificationService,
	}
}

type dashboardHabit struct {
	Habit     habitResponse     `json:"habit"`
	Analytics analyticsResponse `json:"analytics"`
}

// Dashboard returns the user's habits with their streak aggregates plus the
// unread notification count, in one round trip.
func (h *dashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	habits, err := h.habitService.Habits(user.ID)
	if err != nil {
		slog.Error("failed to load dashboard habits", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	out := make([]dashboardHabit, 0, len(habits))
	for _, habit := range habits {
		analytics, err := h.habitService.Analytics(user.ID, habit.ID)
		if err != nil {
			slog.Error("failed to load habit analytics", "error", err, "user_id", user.ID, "habit_id", habit.ID)
			writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
			return
		}
		out = append(out, dashboardHabit{
			Habit:     newHabitResponse(habit),
			Analytics: newAnalyticsResponse(analytics),
		})
	}

	notifications, err := h.notificationService.ByUser(user.ID)
	if err != nil {
		slog.Error("failed to load notifications", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"habits":               out,
		"unread_notifications": unread,
	})
}
