// Package service implements team member management.
package service

import (
	"context"
	"strings"

	"github.com/Lugier/M-A-CRM-sub001/internal/users/repository"
	"github.com/Lugier/M-A-CRM-sub001/platform/apperr"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo repository.Store
	log  *logger.Logger
}

func New(repo repository.Store, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, p repository.CreateParams) (repository.User, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return repository.User{}, apperr.Validation("user name is required")
	}
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.Email == "" {
		return repository.User{}, apperr.Validation("user email is required")
	}
	p.Initials = strings.ToUpper(strings.TrimSpace(p.Initials))
	if p.Initials == "" {
		p.Initials = DeriveInitials(p.Name)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]repository.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, p repository.UpdateParams) (repository.User, error) {
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			return repository.User{}, apperr.Validation("user name must not be empty")
		}
		p.Name = &trimmed
	}
	if p.Initials != nil {
		upper := strings.ToUpper(strings.TrimSpace(*p.Initials))
		p.Initials = &upper
	}
	return s.repo.Update(ctx, p)
}

// DeriveInitials builds uppercase initials from the first letter of up to
// two name parts ("Max Schmidt" -> "MS", "Anna" -> "A").
func DeriveInitials(name string) string {
	parts := strings.Fields(name)
	var b strings.Builder
	for i, part := range parts {
		if i == 2 {
			break
		}
		runes := []rune(part)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}
