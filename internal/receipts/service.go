package receipts

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/pagination"
)

// NumberGenerator issues process-unique receipt numbers.
type NumberGenerator interface {
	Next(now time.Time) string
}

// Service exposes the receipt read surface.
type Service interface {
	List(ctx context.Context, input ListReceiptsInput) ([]models.Receipt, *pagination.Cursor, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
}

// ListReceiptsInput carries receipt list filters from the API layer.
type ListReceiptsInput struct {
	StudentID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
	Cursor    string
}

type service struct {
	repo Repository
}

// NewService wires a receipt service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListReceiptsInput) ([]models.Receipt, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, nil, err
	}
	return s.repo.List(ctx, ListReceiptsQuery{
		StudentID: input.StudentID,
		From:      input.From,
		To:        input.To,
		Limit:     input.Limit,
		Cursor:    cursor,
	})
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("receipt id is required")
	}
	return s.repo.FindByID(ctx, id)
}

// timeNumberGenerator derives receipt numbers from the wall clock plus a
// process-local counter so two payments in the same second never collide.
type timeNumberGenerator struct {
	counter atomic.Uint64
}

// NewNumberGenerator returns the default time-derived number generator.
func NewNumberGenerator() NumberGenerator {
	return &timeNumberGenerator{}
}

func (g *timeNumberGenerator) Next(now time.Time) string {
	seq := g.counter.Add(1) % 10000
	return fmt.Sprintf("RCP-%s-%04d", now.UTC().Format("20060102150405"), seq)
}
