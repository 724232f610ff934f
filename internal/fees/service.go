package fees

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/internal/courses"
	"github.com/vinzencor/student-management-backend/internal/receipts"
	"github.com/vinzencor/student-management-backend/internal/students"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes fee aggregation and payment distribution.
type Service interface {
	ListAggregated(ctx context.Context) ([]AggregatedFeeView, error)
	ListStudentEntries(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error)
	CreateEntry(ctx context.Context, input CreateEntryInput) (*models.LedgerEntry, error)
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error)
	PayEntry(ctx context.Context, input PayEntryInput) (*PaymentResult, error)
}

type service struct {
	tx           txRunner
	repo         Repository
	studentsRepo students.Repository
	coursesRepo  courses.Repository
	receiptsRepo receipts.Repository
	numbers      receipts.NumberGenerator
	logg         *logger.Logger
	now          func() time.Time
}

// NewService wires the fee service with its collaborators.
func NewService(
	tx txRunner,
	repo Repository,
	studentsRepo students.Repository,
	coursesRepo courses.Repository,
	receiptsRepo receipts.Repository,
	numbers receipts.NumberGenerator,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("fee repository required")
	}
	if studentsRepo == nil {
		return nil, fmt.Errorf("student repository required")
	}
	if coursesRepo == nil {
		return nil, fmt.Errorf("course repository required")
	}
	if receiptsRepo == nil {
		return nil, fmt.Errorf("receipt repository required")
	}
	if numbers == nil {
		numbers = receipts.NewNumberGenerator()
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:           tx,
		repo:         repo,
		studentsRepo: studentsRepo,
		coursesRepo:  coursesRepo,
		receiptsRepo: receiptsRepo,
		numbers:      numbers,
		logg:         logg,
		now:          time.Now,
	}, nil
}

// ListAggregated re-fetches the active roster, catalog, and ledger and
// projects one consolidated fee row per student.
func (s *service) ListAggregated(ctx context.Context) ([]AggregatedFeeView, error) {
	activeStudents, err := s.studentsRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	activeCourses, err := s.coursesRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(activeStudents, activeCourses, entries, s.now()), nil
}

func (s *service) ListStudentEntries(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error) {
	if studentID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "student id required")
	}
	return s.repo.ListByStudent(ctx, studentID)
}

func (s *service) CreateEntry(ctx context.Context, input CreateEntryInput) (*models.LedgerEntry, error) {
	if input.StudentID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "student id required")
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "fee amount must be positive")
	}
	if input.DueDate.IsZero() {
		return nil, apperrors.New(apperrors.CodeValidation, "due date required")
	}
	feeType := input.FeeType
	if feeType == "" {
		feeType = enums.FeeTypeTuition
	}
	if !feeType.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid fee type %q", feeType))
	}

	if _, err := s.studentsRepo.FindByID(ctx, input.StudentID); err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		StudentID:   input.StudentID,
		CourseID:    input.CourseID,
		AmountCents: input.AmountCents,
		DueDate:     input.DueDate,
		Status:      enums.FeeStatusPending,
		FeeType:     feeType,
		Description: input.Description,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RecordPayment allocates a payment across a student's outstanding ledger
// entries, oldest due date first, synthesizing entries from enrolled-course
// prices when the student has not been billed yet. One receipt is written per
// payment and it records the full requested amount even when part of the
// payment found nothing to land on.
func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	if input.StudentID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "student id required")
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "payment amount must be positive")
	}
	method, err := normalizeMethod(input.Method)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result *PaymentResult
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		feeRepo := s.repo.WithTx(tx)
		receiptRepo := s.receiptsRepo.WithTx(tx)

		student, err := s.studentsRepo.WithTx(tx).FindByID(ctx, input.StudentID)
		if err != nil {
			return err
		}

		listed, err := feeRepo.ListOutstanding(ctx, input.StudentID)
		if err != nil {
			return err
		}
		entries := make([]*models.LedgerEntry, len(listed))
		for i := range listed {
			entries[i] = &listed[i]
		}

		if len(entries) == 0 {
			entries, err = s.synthesize(ctx, tx, feeRepo, student, now)
			if err != nil {
				return err
			}
		}

		allocations, surplus := Distribute(entries, input.AmountCents, now)
		for _, allocation := range allocations {
			if err := feeRepo.Update(ctx, allocation.Entry); err != nil {
				return err
			}
		}
		if surplus > 0 {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"student_id":    input.StudentID.String(),
				"surplus_cents": surplus,
			}), "payment exceeds outstanding balance; surplus not applied")
		}

		courseName, err := s.receiptCourseName(ctx, tx, allocations)
		if err != nil {
			return err
		}

		receipt := &models.Receipt{
			Number:      s.numbers.Next(now),
			StudentID:   student.ID,
			StudentName: student.FullName(),
			CourseName:  courseName,
			AmountCents: input.AmountCents,
			PaymentDate: now,
			Method:      method,
			Description: input.Description,
		}
		if err := receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}

		updated := make([]models.LedgerEntry, len(allocations))
		for i, allocation := range allocations {
			updated[i] = *allocation.Entry
		}
		result = &PaymentResult{
			Receipt:        receipt,
			UpdatedEntries: updated,
			AllocatedCents: input.AmountCents - surplus,
			SurplusCents:   surplus,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"student_id":   input.StudentID.String(),
		"amount_cents": input.AmountCents,
		"receipt":      result.Receipt.Number,
	}), "payment recorded")
	return result, nil
}

// PayEntry applies a payment directly to one ledger entry. The accumulation
// rule matches the allocation walk collapsed to one entry, except no upper
// bound clamps the paid amount.
func (s *service) PayEntry(ctx context.Context, input PayEntryInput) (*PaymentResult, error) {
	if input.EntryID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "ledger entry id required")
	}
	if input.AmountCents <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "payment amount must be positive")
	}
	method, err := normalizeMethod(input.Method)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var result *PaymentResult
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		feeRepo := s.repo.WithTx(tx)

		entry, err := feeRepo.FindByID(ctx, input.EntryID)
		if err != nil {
			return err
		}
		student, err := s.studentsRepo.WithTx(tx).FindByID(ctx, entry.StudentID)
		if err != nil {
			return err
		}

		ApplyDirect(entry, input.AmountCents, now)
		if err := feeRepo.Update(ctx, entry); err != nil {
			return err
		}

		courseName, err := s.receiptCourseName(ctx, tx, []Allocation{{Entry: entry, AmountCents: input.AmountCents}})
		if err != nil {
			return err
		}

		receipt := &models.Receipt{
			Number:      s.numbers.Next(now),
			StudentID:   student.ID,
			StudentName: student.FullName(),
			CourseName:  courseName,
			AmountCents: input.AmountCents,
			PaymentDate: now,
			Method:      method,
			Description: input.Description,
		}
		if err := s.receiptsRepo.WithTx(tx).Create(ctx, receipt); err != nil {
			return err
		}

		result = &PaymentResult{
			Receipt:        receipt,
			UpdatedEntries: []models.LedgerEntry{*entry},
			AllocatedCents: input.AmountCents,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

// synthesize creates pending entries from the student's enrolled-course
// prices. A student with neither outstanding entries nor courses cannot be
// billed.
func (s *service) synthesize(ctx context.Context, tx *gorm.DB, feeRepo Repository, student *models.Student, now time.Time) ([]*models.LedgerEntry, error) {
	courseIDs := student.CourseIDs()
	if len(courseIDs) == 0 {
		return nil, apperrors.New(apperrors.CodeNoBillableCourses, "student has no outstanding fees and no enrolled courses")
	}
	enrolled, err := s.coursesRepo.WithTx(tx).FindByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	if len(enrolled) == 0 {
		return nil, apperrors.New(apperrors.CodeNoBillableCourses, "student has no outstanding fees and no enrolled courses")
	}

	// Preserve the student's course order: primary course first.
	byID := make(map[uuid.UUID]models.Course, len(enrolled))
	for _, course := range enrolled {
		byID[course.ID] = course
	}
	ordered := make([]models.Course, 0, len(enrolled))
	for _, id := range courseIDs {
		if course, ok := byID[id]; ok {
			ordered = append(ordered, course)
		}
	}

	entries := SynthesizeEntries(student, ordered, now)
	if err := feeRepo.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// receiptCourseName resolves the course-name snapshot for a receipt. Payments
// spanning more than one ledger entry are labeled "Multiple Courses".
func (s *service) receiptCourseName(ctx context.Context, tx *gorm.DB, allocations []Allocation) (string, error) {
	if len(allocations) != 1 {
		return "Multiple Courses", nil
	}
	entry := allocations[0].Entry
	if entry.CourseID == nil {
		if entry.Description != nil && *entry.Description != "" {
			return *entry.Description, nil
		}
		return "General Fee", nil
	}
	found, err := s.coursesRepo.WithTx(tx).FindByIDs(ctx, []uuid.UUID{*entry.CourseID})
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "General Fee", nil
	}
	return found[0].Name, nil
}

func normalizeMethod(method enums.PaymentMethod) (enums.PaymentMethod, error) {
	if method == "" {
		return enums.PaymentMethodCash, nil
	}
	if !method.IsValid() {
		return "", apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid payment method %q", method))
	}
	return method, nil
}
