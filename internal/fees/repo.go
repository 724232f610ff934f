package fees

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/internal/repo"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
)

// Repository handles fee ledger persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.LedgerEntry) error
	CreateBatch(ctx context.Context, entries []*models.LedgerEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error)
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error)
	ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error)
	Update(ctx context.Context, entry *models.LedgerEntry) error
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a fee ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	if err := r.DB(ctx).Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating ledger entry")
	}
	return nil
}

func (r *repository) CreateBatch(ctx context.Context, entries []*models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := r.DB(ctx).Create(entries).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "creating ledger entries")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.DB(ctx).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "ledger entry not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "finding ledger entry")
	}
	return &entry, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.DB(ctx).
		Order("due_date ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing ledger entries")
	}
	return entries, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.DB(ctx).
		Where("student_id = ?", studentID).
		Order("due_date ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing student ledger entries")
	}
	return entries, nil
}

// ListOutstanding returns the entries that still accept payment, earliest due
// date first. The allocation walk relies on this ordering.
func (r *repository) ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.DB(ctx).
		Where("student_id = ? AND status IN ?", studentID, enums.OutstandingFeeStatuses).
		Order("due_date ASC, created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing outstanding ledger entries")
	}
	return entries, nil
}

func (r *repository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	if err := r.DB(ctx).Save(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating ledger entry")
	}
	return nil
}

// MarkOverdue flips pending entries whose due date has passed to overdue and
// returns how many rows changed.
func (r *repository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.LedgerEntry{}).
		Where("status = ? AND due_date < ?", enums.FeeStatusPending, asOf).
		Update("status", enums.FeeStatusOverdue)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, result.Error, "marking overdue ledger entries")
	}
	return result.RowsAffected, nil
}
