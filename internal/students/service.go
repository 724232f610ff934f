package students

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
)

// Service exposes the read surface over the student roster.
type Service interface {
	ListActive(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

type service struct {
	repo Repository
}

// NewService wires a student service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("student repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context) ([]models.Student, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("student id is required")
	}
	return s.repo.FindByID(ctx, id)
}
