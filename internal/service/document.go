package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docshare/internal/model"
	"docshare/internal/repository"
	"docshare/internal/storage"
)

// DocumentService defines the use cases for handling documents. Every
// operation takes the authenticated actor explicitly; there is no ambient
// current-user state.
type DocumentService interface {
	// Upload streams the content to object storage, saves metadata to the
	// DB, and rolls back the stored object if the DB save fails.
	Upload(ctx context.Context, actor *model.User, r io.Reader, filename, contentType string, size int64, description, category *string) (*model.Document, error)

	// ListMine returns the actor's own documents.
	ListMine(ctx context.Context, actor *model.User) ([]model.Document, error)

	// ListShared returns documents shared with the actor through currently
	// valid approved permissions.
	ListShared(ctx context.Context, actor *model.User) ([]model.Document, error)

	// Get returns a document's metadata. Non-owners need an approved,
	// unexpired permission of any kind.
	Get(ctx context.Context, actor *model.User, id string) (*model.Document, error)

	// Download returns the document content stream plus its metadata.
	// Non-owners need download or edit permission. The caller must close
	// the reader.
	Download(ctx context.Context, actor *model.User, id string) (io.ReadCloser, *model.Document, error)

	// Delete removes a document, its stored object, and all access
	// permissions referencing it. Activity history is left untouched.
	// Only the owner may delete.
	Delete(ctx context.Context, actor *model.User, id string) error
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store       storage.Storage
	documents   repository.DocumentRepository
	permissions PermissionService
	perms       repository.PermissionRepository
	activity    ActivityService
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, documents repository.DocumentRepository, permissions PermissionService, perms repository.PermissionRepository, activity ActivityService) DocumentService {
	return &documentService{
		store:       store,
		documents:   documents,
		permissions: permissions,
		perms:       perms,
		activity:    activity,
	}
}

func (s *documentService) Upload(ctx context.Context, actor *model.User, r io.Reader, filename, contentType string, size int64, description, category *string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// Object key is UUID + original extension so renames never collide.
	ext := filepath.Ext(filename)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
			"owner-id":          actor.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.New().String(),
		Filename:    filename,
		ContentType: contentType,
		Size:        objInfo.Size,
		OwnerID:     actor.ID,
		OwnerName:   actor.FullName,
		Description: description,
		Category:    category,
		StoragePath: objInfo.Key,
		UploadedAt:  time.Now().UTC(),
	}
	stored, err := s.documents.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if err := s.activity.Record(ctx, actor, stored.ID, stored.Filename, model.ActionUpload, nil, nil); err != nil {
		logAppendFailure(model.ActionUpload, stored.ID, err)
	}

	return stored, nil
}

func (s *documentService) ListMine(ctx context.Context, actor *model.User) ([]model.Document, error) {
	return s.documents.ListByOwner(ctx, actor.ID)
}

func (s *documentService) ListShared(ctx context.Context, actor *model.User) ([]model.Document, error) {
	ids, err := s.permissions.SharedDocumentIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.documents.ListByIDs(ctx, ids)
}

func (s *documentService) Get(ctx context.Context, actor *model.User, id string) (*model.Document, error) {
	doc, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.permissions.CheckAccess(ctx, actor, doc, model.PermissionView); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Download(ctx context.Context, actor *model.User, id string) (io.ReadCloser, *model.Document, error) {
	doc, err := s.findByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.permissions.CheckAccess(ctx, actor, doc, model.PermissionDownload); err != nil {
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}

	if err := s.activity.Record(ctx, actor, doc.ID, doc.Filename, model.ActionDownload, nil, nil); err != nil {
		logAppendFailure(model.ActionDownload, doc.ID, err)
	}

	return rc, doc, nil
}

func (s *documentService) Delete(ctx context.Context, actor *model.User, id string) error {
	doc, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.OwnerID != actor.ID {
		return ErrForbidden
	}

	// Delete from storage first; if this fails, keep the DB row so the
	// storage reference is not lost.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	// Cascade: permissions referencing the document go with it. Activity
	// logs stay for audit history.
	if err := s.perms.DeleteByDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete permissions: %w", err)
	}
	if err := s.documents.Delete(ctx, doc.ID); err != nil {
		return err
	}

	if err := s.activity.Record(ctx, actor, doc.ID, doc.Filename, model.ActionDelete, nil, nil); err != nil {
		logAppendFailure(model.ActionDelete, doc.ID, err)
	}

	return nil
}

func (s *documentService) findByID(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}
