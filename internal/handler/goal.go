package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/service"
)

type goalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *goalHandler {
	return &goalHandler{
		goalService: goalService,
	}
}

type goalResponse struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	SortOrder int    `json:"sort_order"`
}

func (h *goalHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	category := r.URL.Query().Get("category")

	goals, err := h.goalService.ByCategory(user.ID, category)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to load goals", "error", err, "user_id", user.ID, "category", category)
		writeError(w, http.StatusInternalServerError, "Failed to load goals")
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, goalResponse{Text: g.Text, Completed: g.Completed, SortOrder: g.SortOrder})
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "goals": out})
}

// Save replaces the whole list for one category with the submitted list.
func (h *goalHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	category := r.URL.Query().Get("category")

	var req struct {
		Goals []model.GoalItem `json:"goals"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err = h.goalService.SaveCategory(user.ID, category, req.Goals)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory),
			errors.Is(err, service.ErrTooManyGoals),
			errors.Is(err, service.ErrEmptyGoalText):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to save goals", "error", err, "user_id", user.ID, "category", category)
			writeError(w, http.StatusInternalServerError, "Failed to save goals")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"category": category, "count": len(req.Goals)})
}

func (h *goalHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.ResetAll(user.ID)
	if err != nil {
		slog.Error("failed to reset goals", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to reset goals")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "all goals cleared"})
}
