package model

import (
	"time"
)

const (
	FileTypeAttachment = "attachment"
)

type File struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	OwnerType    string    `db:"owner_type"` // "user" or "habit"
	OwnerID      string    `db:"owner_id"`
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	Public       bool      `db:"public"`
	CreatedAt    time.Time `db:"created_at"`
}
