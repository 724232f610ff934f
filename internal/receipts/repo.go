package receipts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/internal/repo"
	pkgdb "github.com/vinzencor/student-management-backend/pkg/db"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/pagination"
)

// Repository handles receipt persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, receipt *models.Receipt) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	List(ctx context.Context, query ListReceiptsQuery) ([]models.Receipt, *pagination.Cursor, error)
}

// ListReceiptsQuery configures receipt list queries.
type ListReceiptsQuery struct {
	StudentID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Limit     int
	Cursor    *pagination.Cursor
}

type repository struct {
	repo.Base
}

// NewRepository returns a receipt repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, receipt *models.Receipt) error {
	if err := r.DB(ctx).Create(receipt).Error; err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return apperrors.Wrap(apperrors.CodeConflict, err, "receipt number already used")
		}
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating receipt")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.DB(ctx).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "receipt not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "finding receipt")
	}
	return &receipt, nil
}

// List returns receipts newest first with cursor pagination and optional
// student and payment-date filters.
func (r *repository) List(ctx context.Context, query ListReceiptsQuery) ([]models.Receipt, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(query.Limit)

	db := r.DB(ctx).Model(&models.Receipt{})
	if query.StudentID != nil {
		db = db.Where("student_id = ?", *query.StudentID)
	}
	if query.From != nil {
		db = db.Where("payment_date >= ?", *query.From)
	}
	if query.To != nil {
		db = db.Where("payment_date <= ?", *query.To)
	}
	if query.Cursor != nil {
		db = db.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var receipts []models.Receipt
	err := db.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&receipts).Error
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing receipts")
	}

	var next *pagination.Cursor
	if len(receipts) > limit {
		receipts = receipts[:limit]
		last := receipts[len(receipts)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return receipts, next, nil
}
