package model

import "time"

// Document represents an uploaded file's metadata. This is a pure domain
// model with no database-specific dependencies or tags, so it can be used
// across layers (HTTP, service, storage) without coupling to persistence.
// The file content itself lives in object storage under StoragePath.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	OwnerID     string    `json:"owner_id"`
	OwnerName   string    `json:"owner_name"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
