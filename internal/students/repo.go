package students

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/internal/repo"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// Repository handles student roster persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a student repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) ListActive(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.DB(ctx).
		Preload("Guardian").
		Preload("PrimaryCourse").
		Preload("Enrollments").
		Preload("Enrollments.Course").
		Where("status = ?", enums.StudentStatusActive).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "listing active students")
	}
	return students, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	var student models.Student
	err := r.DB(ctx).
		Preload("Guardian").
		Preload("PrimaryCourse").
		Preload("Enrollments").
		Preload("Enrollments.Course").
		First(&student, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "student not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "finding student")
	}
	return &student, nil
}
