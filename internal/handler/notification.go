package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/service"
)

type notificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *notificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
	}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *notificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	notifications, err := h.notificationService.ByUser(user.ID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{ID: n.ID, Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt})
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (h *notificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Message string `json:"message"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	notification, err := h.notificationService.Create(user.ID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyNotification) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create notification", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create notification")
		return
	}

	writeJSON(w, http.StatusCreated, notificationResponse{
		ID:        notification.ID,
		Message:   notification.Message,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	})
}

func (h *notificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	notificationID := r.PathValue("id")

	err := h.notificationService.MarkRead(user.ID, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found")
			return
		}
		slog.Error("failed to mark notification read", "error", err, "user_id", user.ID, "notification_id", notificationID)
		writeError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *notificationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.notificationService.Clear(user.ID)
	if err != nil {
		slog.Error("failed to clear notifications", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to clear notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
