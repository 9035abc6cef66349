package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"docshare/internal/model"
	"docshare/internal/repository"
)

// summaryWindow is the trailing window covered by WeeklySummary.
const summaryWindow = 7 * 24 * time.Hour

// topDocumentsLimit caps the most-accessed ranking in the weekly summary.
const topDocumentsLimit = 5

// ActivityService owns the append-only activity log and the weekly summary
// derived from it. Record is best-effort from the mutating flows: callers
// invoke it fire-and-forget and a failed append never fails the operation
// that triggered it.
type ActivityService interface {
	// Record appends one activity entry.
	Record(ctx context.Context, actor *model.User, documentID, documentName string, action model.ActivityAction, durationSeconds *int, metadata map[string]any) error

	// Logs returns entries visible to the actor, newest first: entries for
	// documents the actor owns plus the actor's own actions anywhere. With a
	// documentID filter, non-owners see only their own entries for that
	// document.
	Logs(ctx context.Context, actor *model.User, documentID string) ([]model.ActivityLog, error)

	// LogView records a view action with its reading duration. Fails with
	// ErrNotFound if the document does not exist.
	LogView(ctx context.Context, actor *model.User, documentID string, durationSeconds int) error

	// WeeklySummary aggregates the actor's activity over [now-7d, now].
	WeeklySummary(ctx context.Context, actor *model.User, now time.Time) (*model.WeeklySummary, error)
}

type activityService struct {
	logs        repository.ActivityRepository
	documents   repository.DocumentRepository
	permissions repository.PermissionRepository
}

// NewActivityService constructs a new ActivityService.
func NewActivityService(logs repository.ActivityRepository, documents repository.DocumentRepository, permissions repository.PermissionRepository) ActivityService {
	return &activityService{logs: logs, documents: documents, permissions: permissions}
}

func (s *activityService) Record(ctx context.Context, actor *model.User, documentID, documentName string, action model.ActivityAction, durationSeconds *int, metadata map[string]any) error {
	entry := &model.ActivityLog{
		ID:              uuid.New().String(),
		UserID:          actor.ID,
		UserName:        actor.FullName,
		DocumentID:      documentID,
		DocumentName:    documentName,
		Action:          action,
		Timestamp:       time.Now().UTC(),
		DurationSeconds: durationSeconds,
		Metadata:        metadata,
	}
	return s.logs.Create(ctx, entry)
}

func (s *activityService) Logs(ctx context.Context, actor *model.User, documentID string) ([]model.ActivityLog, error) {
	if documentID == "" {
		return s.logs.ListVisibleTo(ctx, actor.ID)
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if doc != nil && doc.OwnerID == actor.ID {
		return s.logs.ListForDocument(ctx, documentID)
	}
	// Non-owners (and lookups on deleted documents) only see their own rows.
	return s.logs.ListForDocumentByUser(ctx, documentID, actor.ID)
}

func (s *activityService) LogView(ctx context.Context, actor *model.User, documentID string, durationSeconds int) error {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.Record(ctx, actor, doc.ID, doc.Filename, model.ActionView, &durationSeconds, nil)
}

func (s *activityService) WeeklySummary(ctx context.Context, actor *model.User, now time.Time) (*model.WeeklySummary, error) {
	weekStart := now.Add(-summaryWindow)

	entries, err := s.logs.ListByUserSince(ctx, actor.ID, weekStart)
	if err != nil {
		return nil, err
	}

	accessed := make(map[string]bool)
	accessCount := make(map[string]int)
	accessOrder := make([]string, 0)
	uploaded := 0
	totalSeconds := 0

	for _, entry := range entries {
		switch entry.Action {
		case model.ActionView, model.ActionDownload, model.ActionEdit:
			accessed[entry.DocumentID] = true
			if accessCount[entry.DocumentID] == 0 {
				accessOrder = append(accessOrder, entry.DocumentID)
			}
			accessCount[entry.DocumentID]++
		case model.ActionUpload:
			uploaded++
		}
		if entry.DurationSeconds != nil {
			totalSeconds += *entry.DurationSeconds
		}
	}

	granted, err := s.permissions.CountGrantedByOwner(ctx, actor.ID, weekStart)
	if err != nil {
		return nil, err
	}
	received, err := s.permissions.CountGrantedToRequester(ctx, actor.ID, weekStart)
	if err != nil {
		return nil, err
	}
	// Pending backlog is current state, not window-filtered.
	pending, err := s.permissions.CountPendingByOwner(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	top, err := s.topDocuments(ctx, accessOrder, accessCount)
	if err != nil {
		return nil, err
	}

	return &model.WeeklySummary{
		UserID:              actor.ID,
		UserName:            actor.FullName,
		WeekStart:           weekStart,
		WeekEnd:             now,
		DocumentsAccessed:   len(accessed),
		DocumentsUploaded:   uploaded,
		PermissionsGranted:  granted,
		PermissionsReceived: received,
		PendingRequests:     pending,
		TotalActiveSeconds:  totalSeconds,
		TopDocuments:        top,
	}, nil
}

// topDocuments ranks accessed documents by count and resolves each to its
// current filename. Ties keep first-access order (map iteration would be
// nondeterministic); documents deleted since being accessed are skipped.
func (s *activityService) topDocuments(ctx context.Context, order []string, counts map[string]int) ([]model.TopDocument, error) {
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > topDocumentsLimit {
		ranked = ranked[:topDocumentsLimit]
	}

	docs, err := s.documents.ListByIDs(ctx, ranked)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(docs))
	for _, d := range docs {
		names[d.ID] = d.Filename
	}

	top := make([]model.TopDocument, 0, len(ranked))
	for _, id := range ranked {
		name, ok := names[id]
		if !ok {
			continue
		}
		top = append(top, model.TopDocument{Name: name, AccessCount: counts[id]})
	}
	return top, nil
}

// logAppendFailure reports a failed best-effort activity append as a JSON log
// line without surfacing the error to the caller's operation.
func logAppendFailure(action model.ActivityAction, documentID string, err error) {
	entry := map[string]any{
		"ts":          time.Now().UTC().Format(time.RFC3339Nano),
		"level":       "error",
		"msg":         "activity_append_failed",
		"action":      string(action),
		"document_id": documentID,
		"error":       err.Error(),
	}
	if b, mErr := json.Marshal(entry); mErr == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
