package model

import "time"

// ActivityAction is the kind of user action an activity entry records.
type ActivityAction string

const (
	ActionView          ActivityAction = "view"
	ActionDownload      ActivityAction = "download"
	ActionEdit          ActivityAction = "edit"
	ActionUpload        ActivityAction = "upload"
	ActionDelete        ActivityAction = "delete"
	ActionRequestAccess ActivityAction = "request_access"
	ActionGrantAccess   ActivityAction = "grant_access"
)

// ActivityLog is one append-only audit entry. Entries are never mutated or
// deleted; document deletion intentionally leaves them behind. User and
// document names are denormalized so history stays readable after the
// referenced rows are gone.
type ActivityLog struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	UserName        string         `json:"user_name"`
	DocumentID      string         `json:"document_id"`
	DocumentName    string         `json:"document_name"`
	Action          ActivityAction `json:"action"`
	Timestamp       time.Time      `json:"timestamp"`
	DurationSeconds *int           `json:"duration_seconds,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// TopDocument is a weekly-summary ranking entry.
type TopDocument struct {
	Name        string `json:"name"`
	AccessCount int    `json:"access_count"`
}

// WeeklySummary aggregates one user's activity over a trailing 7-day window.
type WeeklySummary struct {
	UserID              string        `json:"user_id"`
	UserName            string        `json:"user_name"`
	WeekStart           time.Time     `json:"week_start"`
	WeekEnd             time.Time     `json:"week_end"`
	DocumentsAccessed   int           `json:"documents_accessed"`
	DocumentsUploaded   int           `json:"documents_uploaded"`
	PermissionsGranted  int           `json:"permissions_granted"`
	PermissionsReceived int           `json:"permissions_received"`
	PendingRequests     int           `json:"pending_requests"`
	TotalActiveSeconds  int           `json:"total_active_seconds"`
	TopDocuments        []TopDocument `json:"top_documents"`
}
