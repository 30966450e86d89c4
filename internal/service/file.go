package service

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/habitloop/habitloop/internal/model"
	"github.com/habitloop/habitloop/internal/repository"
	"github.com/habitloop/habitloop/internal/storage"
)

type FileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, storage storage.Storage) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		storage:  storage,
	}
}

// Upload stores the file and records it. Validation (type, size) is the
// caller's job, before the bytes ever reach storage.
func (s *FileService) Upload(userID, ownerType, ownerID string, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	ext := filepath.Ext(header.Filename)
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	storagePath := filepath.Join("private", "attachments", filename)

	err := s.storage.Save(storagePath, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	fileModel := &model.File{
		ID:           uuid.New().String(),
		UserID:       userID,
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		Type:         model.FileTypeAttachment,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		StoragePath:  storagePath,
		Public:       false,
		CreatedAt:    time.Now(),
	}

	err = s.fileRepo.Create(fileModel)
	if err != nil {
		// Orphaned object cleanup on DB failure
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	return fileModel, nil
}

// URL returns the access URL for a file, presigned when backed by S3.
func (s *FileService) URL(file *model.File) string {
	if file == nil {
		return ""
	}

	s3Storage, ok := s.storage.(*storage.S3Storage)
	if ok {
		if file.Public {
			return s3Storage.PublicURL(file.StoragePath)
		}
		url, err := s3Storage.PresignedURL(file.StoragePath, s3Storage.GetPresignExpiryPrivate())
		if err != nil {
			return s3Storage.PublicURL(file.StoragePath)
		}
		return url
	}

	return s.storage.URL(file.StoragePath)
}

func (s *FileService) ByID(userID, fileID string) (*model.File, error) {
	file, err := s.fileRepo.ByID(fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, repository.ErrFileNotFound
	}
	return file, nil
}

func (s *FileService) AllUserFiles(userID string) ([]*model.File, error) {
	return s.fileRepo.AllUserFiles(userID)
}

// Delete removes a file from storage and database. Storage deletion is best
// effort; the DB record is authoritative.
func (s *FileService) Delete(userID, fileID string) error {
	file, err := s.ByID(userID, fileID)
	if err != nil {
		return err
	}

	delErr := s.storage.Delete(file.StoragePath)
	if delErr != nil {
		slog.Error("failed to delete file from storage", "error", delErr, "path", file.StoragePath)
	}

	err = s.fileRepo.Delete(file.ID)
	if err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	return nil
}
