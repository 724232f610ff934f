package courses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/internal/repo"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
)

// Repository handles course catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Course, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a course repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) ListActive(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.DB(ctx).
		Where("status = ?", enums.CourseStatusActive).
		Order("name ASC").
		Find(&courses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing active courses")
	}
	return courses, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var courses []models.Course
	err := r.DB(ctx).
		Where("id IN ?", ids).
		Find(&courses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "finding courses")
	}
	return courses, nil
}
