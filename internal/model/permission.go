package model

import "time"

// PermissionKind is the capability a requester asks for on a document.
type PermissionKind string

const (
	PermissionView     PermissionKind = "view"
	PermissionDownload PermissionKind = "download"
	PermissionEdit     PermissionKind = "edit"
)

// Valid reports whether k is one of the known permission kinds.
func (k PermissionKind) Valid() bool {
	switch k {
	case PermissionView, PermissionDownload, PermissionEdit:
		return true
	}
	return false
}

// PermissionStatus is the lifecycle state of an access permission.
// Transitions are one-directional: pending goes to approved or denied on the
// owner's decision, and approved goes to expired once its expiry passes.
// Denied and expired are terminal.
type PermissionStatus string

const (
	StatusPending  PermissionStatus = "pending"
	StatusApproved PermissionStatus = "approved"
	StatusDenied   PermissionStatus = "denied"
	StatusExpired  PermissionStatus = "expired"
)

// AccessPermission records one access request and its resolution.
// DocumentName, RequesterName and OwnerID are denormalized at request time to
// avoid joins on every list; they go stale if the source renames, which is an
// accepted tradeoff.
type AccessPermission struct {
	ID             string           `json:"id"`
	DocumentID     string           `json:"document_id"`
	DocumentName   string           `json:"document_name"`
	RequesterID    string           `json:"requester_id"`
	RequesterName  string           `json:"requester_name"`
	OwnerID        string           `json:"owner_id"`
	PermissionType PermissionKind   `json:"permission_type"`
	Status         PermissionStatus `json:"status"`
	RequestedAt    time.Time        `json:"requested_at"`
	GrantedAt      *time.Time       `json:"granted_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	GrantReason    *string          `json:"grant_reason,omitempty"`
}

// ExpiredBy reports whether the permission is approved with an expiry that
// has already passed at the given instant. Such rows are corrected to
// StatusExpired lazily, on the next read or access check.
func (p *AccessPermission) ExpiredBy(now time.Time) bool {
	return p.Status == StatusApproved && p.ExpiresAt != nil && !p.ExpiresAt.After(now)
}
