// Package repository persists deal document metadata. The bytes themselves
// live in object storage.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate = "documents.repository.create"
	opGet    = "documents.repository.get"
	opList   = "documents.repository.list"
	opDelete = "documents.repository.delete"
)

// Document is the metadata row for one stored file.
type Document struct {
	ID          uuid.UUID `json:"id"`
	DealID      uuid.UUID `json:"dealId"`
	FileName    string    `json:"fileName"`
	ObjectKey   string    `json:"-"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  uuid.UUID `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateParams holds the fields for a new document row.
type CreateParams struct {
	DealID      uuid.UUID
	FileName    string
	ObjectKey   string
	ContentType string
	SizeBytes   int64
	UploadedBy  uuid.UUID
}

// Store is the persistence port for document metadata.
type Store interface {
	Create(ctx context.Context, p CreateParams) (Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (Document, error)
	ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Document, error)
	Delete(ctx context.Context, id uuid.UUID) (Document, error)
}

const documentColumns = `id, deal_id, file_name, object_key, content_type, size_bytes, uploaded_by, created_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `
		INSERT INTO documents (deal_id, file_name, object_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+documentColumns,
		p.DealID, p.FileName, p.ObjectKey, p.ContentType, p.SizeBytes, p.UploadedBy,
	).Scan(documentFields(&d)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Document{}, apperr.NotFound("deal or user not found").WithOp(opCreate)
		}
		return Document{}, apperr.Internal(fmt.Sprintf("create document failed: %v", err)).WithOp(opCreate)
	}
	return d, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id).
		Scan(documentFields(&d)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, apperr.NotFound("document not found").WithOp(opGet)
	}
	if err != nil {
		return Document{}, apperr.Internal(fmt.Sprintf("get document failed: %v", err)).WithOp(opGet)
	}
	return d, nil
}

func (r *Repository) ListForDeal(ctx context.Context, dealID uuid.UUID) ([]Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE deal_id = $1 ORDER BY created_at DESC`,
		dealID,
	)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list documents failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(documentFields(&d)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan document failed: %v", err)).WithOp(opList)
		}
		docs = append(docs, d)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate documents failed: %v", rows.Err())).WithOp(opList)
	}
	return docs, nil
}

// Delete removes the row and returns it so the caller can clean up the
// object afterwards.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (Document, error) {
	var d Document
	err := r.pool.QueryRow(ctx,
		`DELETE FROM documents WHERE id = $1 RETURNING `+documentColumns, id,
	).Scan(documentFields(&d)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, apperr.NotFound("document not found").WithOp(opDelete)
	}
	if err != nil {
		return Document{}, apperr.Internal(fmt.Sprintf("delete document failed: %v", err)).WithOp(opDelete)
	}
	return d, nil
}

func documentFields(d *Document) []any {
	return []any{
		&d.ID, &d.DealID, &d.FileName, &d.ObjectKey, &d.ContentType,
		&d.SizeBytes, &d.UploadedBy, &d.CreatedAt,
	}
}
