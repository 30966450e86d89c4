package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/habitloop/habitloop/internal/ctxkeys"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/service"
	"github.com/habitloop/habitloop/internal/validation"
)

const maxUploadSize = 10 << 20 // form parse ceiling, per-file limits live in validation

type fileHandler struct {
	fileService  *service.FileService
	habitService *service.HabitService
}

func NewFileHandler(fileService *service.FileService, habitService *service.HabitService) *fileHandler {
	return &fileHandler{
		fileService:  fileService,
		habitService: habitService,
	}
}

type fileResponse struct {
	ID           string    `json:"id"`
	OwnerType    string    `json:"owner_type"`
	OwnerID      string    `json:"owner_id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *fileHandler) newFileResponse(file *model.File) fileResponse {
	return fileResponse{
		ID:           file.ID,
		OwnerType:    file.OwnerType,
		OwnerID:      file.OwnerID,
		OriginalName: file.OriginalName,
		MimeType:     file.MimeType,
		Size:         file.Size,
		URL:          h.fileService.URL(file),
		CreatedAt:    file.CreatedAt,
	}
}

// Upload attaches an image or PDF to the user's account or one of their
// habits. Multipart form fields: file, owner_type ("user"|"habit"),
// owner_id (habit id when owner_type is "habit").
func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.ImageConstraints, validation.DocumentConstraints)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ownerType := r.FormValue("owner_type")
	ownerID := r.FormValue("owner_id")
	switch ownerType {
	case "user", "":
		ownerType = "user"
		ownerID = user.ID
	case "habit":
		// The habit must exist and belong to the caller.
		_, err = h.habitService.ByID(user.ID, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrHabitNotFound) {
				writeError(w, http.StatusNotFound, "Habit not found")
				return
			}
			slog.Error("failed to check habit for upload", "error", err, "user_id", user.ID, "habit_id", ownerID)
			writeError(w, http.StatusInternalServerError, "Failed to upload file")
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "owner_type must be 'user' or 'habit'")
		return
	}

	uploaded, err := h.fileService.Upload(user.ID, ownerType, ownerID, file, header)
	if err != nil {
		slog.Error("file upload failed", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	slog.Info("file uploaded", "file_id", uploaded.ID, "user_id", user.ID, "size", uploaded.Size)
	writeJSON(w, http.StatusCreated, h.newFileResponse(uploaded))
}

func (h *fileHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	files, err := h.fileService.AllUserFiles(user.ID)
	if err != nil {
		slog.Error("failed to list files", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to load files")
		return
	}

	out := make([]fileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, h.newFileResponse(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": out})
}

func (h *fileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	fileID := r.PathValue("id")

	err := h.fileService.Delete(user.ID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		slog.Error("failed to delete file", "error", err, "user_id", user.ID, "file_id", fileID)
		writeError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
