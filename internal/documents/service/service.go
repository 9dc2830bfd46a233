// Package service stores deal documents: metadata in Postgres, bytes in the
// object store.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Lugier/M-A-CRM-sub001/internal/documents/repository"
	"github.com/Lugier/M-A-CRM-sub001/internal/documents/storage"
	"github.com/Lugier/M-A-CRM-sub001/internal/events"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

const maxUploadBytes = 100 << 20

type Service struct {
	repo    repository.Store
	objects storage.ObjectStore
	log     *logger.Logger
}

func New(repo repository.Store, objects storage.ObjectStore, log *logger.Logger) *Service {
	return &Service{repo: repo, objects: objects, log: log}
}

// UploadParams describes one incoming file.
type UploadParams struct {
	DealID      uuid.UUID
	ActorID     uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Upload writes the object first, then the metadata row. A failed metadata
// insert leaves an orphaned object behind; deal cleanup sweeps those by
// prefix.
func (s *Service) Upload(ctx context.Context, p UploadParams) (repository.Document, error) {
	p.FileName = strings.TrimSpace(p.FileName)
	if p.FileName == "" {
		return repository.Document{}, apperr.Validation("file name is required")
	}
	if p.SizeBytes <= 0 || p.SizeBytes > maxUploadBytes {
		return repository.Document{}, apperr.Validation("file size must be between 1 byte and 100 MiB")
	}
	if p.ContentType == "" {
		p.ContentType = "application/octet-stream"
	}

	key := objectKey(p.DealID, uuid.New(), p.FileName)
	if err := s.objects.Put(ctx, key, p.Body, p.SizeBytes, p.ContentType); err != nil {
		return repository.Document{}, apperr.Internal(fmt.Sprintf("store document failed: %v", err))
	}

	doc, err := s.repo.Create(ctx, repository.CreateParams{
		DealID:      p.DealID,
		FileName:    p.FileName,
		ObjectKey:   key,
		ContentType: p.ContentType,
		SizeBytes:   p.SizeBytes,
		UploadedBy:  p.ActorID,
	})
	if err != nil {
		if removeErr := s.objects.Remove(ctx, key); removeErr != nil {
			s.log.SideEffectFailed("orphaned object cleanup", removeErr)
		}
		return repository.Document{}, err
	}
	return doc, nil
}

// DownloadURL returns a short-lived presigned link for the document.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.objects.PresignGet(ctx, doc.ObjectKey, doc.FileName)
	if err != nil {
		return "", apperr.Internal(fmt.Sprintf("presign document failed: %v", err))
	}
	return url, nil
}

func (s *Service) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]repository.Document, error) {
	return s.repo.ListForDeal(ctx, dealID)
}

// Delete removes the metadata row first; the object removal afterwards is
// best-effort.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if err := s.objects.Remove(ctx, doc.ObjectKey); err != nil {
		s.log.SideEffectFailed("document object removal", err)
	}
	return nil
}

// HandleDealDeleted sweeps the deal's object prefix after the metadata rows
// were removed by the cascade delete.
func (s *Service) HandleDealDeleted(ctx context.Context, event events.Event) error {
	deleted, ok := event.(events.DealDeleted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	return s.objects.RemoveByPrefix(ctx, dealPrefix(deleted.DealID))
}

func objectKey(dealID, docID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s%s/%s", dealPrefix(dealID), docID, fileName)
}

func dealPrefix(dealID uuid.UUID) string {
	return fmt.Sprintf("deals/%s/", dealID)
}
