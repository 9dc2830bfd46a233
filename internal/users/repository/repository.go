// Package repository persists team members.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/phone"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	opCreate = "users.repository.create"
	opGet    = "users.repository.get"
	opList   = "users.repository.list"
	opUpdate = "users.repository.update"
)

const userColumns = `id, name, initials, email, phone, role, avatar_color, teams_webhook_url, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, p CreateParams) (User, error) {
	if p.Phone != nil {
		normalized := phone.NormalizeE164(*p.Phone)
		p.Phone = &normalized
	}

	var u User
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, initials, email, phone, role, avatar_color, teams_webhook_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		p.Name, p.Initials, p.Email, p.Phone, p.Role, p.AvatarColor, p.TeamsWebhookURL,
	).Scan(userFields(&u)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, apperr.Conflict("a user with this email already exists").WithOp(opCreate)
		}
		return User{}, apperr.Internal(fmt.Sprintf("create user failed: %v", err)).WithOp(opCreate)
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(userFields(&u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found").WithOp(opGet)
	}
	if err != nil {
		return User{}, apperr.Internal(fmt.Sprintf("get user failed: %v", err)).WithOp(opGet)
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, apperr.Internal(fmt.Sprintf("list users failed: %v", err)).WithOp(opList)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(userFields(&u)...); err != nil {
			return nil, apperr.Internal(fmt.Sprintf("scan user failed: %v", err)).WithOp(opList)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, apperr.Internal(fmt.Sprintf("iterate users failed: %v", rows.Err())).WithOp(opList)
	}
	return users, nil
}

func (r *Repository) Update(ctx context.Context, p UpdateParams) (User, error) {
	if p.Phone != nil {
		normalized := phone.NormalizeE164(*p.Phone)
		p.Phone = &normalized
	}

	var u User
	err := r.pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($2, name),
			initials = COALESCE($3, initials),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			role = COALESCE($6, role),
			avatar_color = COALESCE($7, avatar_color),
			teams_webhook_url = COALESCE($8, teams_webhook_url),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		p.ID, p.Name, p.Initials, p.Email, p.Phone, p.Role, p.AvatarColor, p.TeamsWebhookURL,
	).Scan(userFields(&u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.NotFound("user not found").WithOp(opUpdate)
	}
	if err != nil {
		return User{}, apperr.Internal(fmt.Sprintf("update user failed: %v", err)).WithOp(opUpdate)
	}
	return u, nil
}

func userFields(u *User) []any {
	return []any{
		&u.ID, &u.Name, &u.Initials, &u.Email, &u.Phone, &u.Role,
		&u.AvatarColor, &u.TeamsWebhookURL, &u.CreatedAt, &u.UpdatedAt,
	}
}
