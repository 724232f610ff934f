package reminders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/internal/students"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
	"github.com/vinzencor/student-management-backend/pkg/mailer"
)

type stubFeeRepo struct {
	entries map[uuid.UUID]*models.LedgerEntry
}

func (s *stubFeeRepo) WithTx(tx *gorm.DB) fees.Repository { return s }

func (s *stubFeeRepo) Create(ctx context.Context, entry *models.LedgerEntry) error { return nil }

func (s *stubFeeRepo) CreateBatch(ctx context.Context, entries []*models.LedgerEntry) error {
	return nil
}

func (s *stubFeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ledger entry not found")
	}
	return entry, nil
}

func (s *stubFeeRepo) ListAll(ctx context.Context) ([]models.LedgerEntry, error) { return nil, nil }

func (s *stubFeeRepo) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error) {
	return nil, nil
}

func (s *stubFeeRepo) ListOutstanding(ctx context.Context, studentID uuid.UUID) ([]models.LedgerEntry, error) {
	return nil, nil
}

func (s *stubFeeRepo) Update(ctx context.Context, entry *models.LedgerEntry) error { return nil }

func (s *stubFeeRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) { return 0, nil }

type stubStudentRepo struct {
	students map[uuid.UUID]*models.Student
}

func (s *stubStudentRepo) WithTx(tx *gorm.DB) students.Repository { return s }

func (s *stubStudentRepo) ListActive(ctx context.Context) ([]models.Student, error) {
	return nil, nil
}

func (s *stubStudentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
	}
	return student, nil
}

type recordingSender struct {
	sent    []mailer.ReminderEmail
	failFor map[string]error
}

func (r *recordingSender) SendFeeReminder(ctx context.Context, msg mailer.ReminderEmail) error {
	if err, ok := r.failFor[msg.ToEmail]; ok {
		return err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func strPtr(v string) *string { return &v }

func newReminderFixture() (*stubFeeRepo, *stubStudentRepo, *recordingSender) {
	return &stubFeeRepo{entries: map[uuid.UUID]*models.LedgerEntry{}},
		&stubStudentRepo{students: map[uuid.UUID]*models.Student{}},
		&recordingSender{failFor: map[string]error{}}
}

func newReminderService(t *testing.T, feeRepo fees.Repository, studentRepo students.Repository, sender Sender) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "reminders-test", Output: io.Discard})
	svc, err := NewService(feeRepo, studentRepo, sender, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func addOutstandingEntry(feeRepo *stubFeeRepo, studentID uuid.UUID) *models.LedgerEntry {
	entry := &models.LedgerEntry{
		ID:          uuid.New(),
		StudentID:   studentID,
		AmountCents: 50000,
		PaidCents:   10000,
		DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:      enums.FeeStatusPartial,
		FeeType:     enums.FeeTypeTuition,
	}
	feeRepo.entries[entry.ID] = entry
	return entry
}

func TestSendReminderPrefersStudentEmail(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	student := &models.Student{
		ID:        uuid.New(),
		FirstName: "Asha",
		LastName:  "Nair",
		Email:     strPtr("asha@example.com"),
		Guardian:  &models.Guardian{Name: "Maya Nair", Email: strPtr("maya@example.com")},
	}
	studentRepo.students[student.ID] = student
	entry := addOutstandingEntry(feeRepo, student.ID)

	svc := newReminderService(t, feeRepo, studentRepo, sender)
	if err := svc.SendReminder(context.Background(), entry.ID); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ToEmail != "asha@example.com" {
		t.Fatalf("expected student email preferred, got %q", msg.ToEmail)
	}
	if msg.BalanceCents != 40000 {
		t.Fatalf("expected outstanding balance 40000, got %d", msg.BalanceCents)
	}
	if msg.Description != "tuition fee" {
		t.Fatalf("expected fee-type fallback description, got %q", msg.Description)
	}
}

func TestSendReminderFallsBackToGuardian(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	student := &models.Student{
		ID:        uuid.New(),
		FirstName: "Ben",
		LastName:  "Thomas",
		Guardian:  &models.Guardian{Name: "Rita Thomas", Email: strPtr("rita@example.com")},
	}
	studentRepo.students[student.ID] = student
	entry := addOutstandingEntry(feeRepo, student.ID)

	svc := newReminderService(t, feeRepo, studentRepo, sender)
	if err := svc.SendReminder(context.Background(), entry.ID); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if sender.sent[0].ToEmail != "rita@example.com" || sender.sent[0].ToName != "Rita Thomas" {
		t.Fatalf("expected guardian recipient, got %+v", sender.sent[0])
	}
}

func TestSendReminderRejectsSettledEntry(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	student := &models.Student{ID: uuid.New(), FirstName: "Asha", LastName: "Nair", Email: strPtr("asha@example.com")}
	studentRepo.students[student.ID] = student
	entry := addOutstandingEntry(feeRepo, student.ID)
	entry.PaidCents = entry.AmountCents
	entry.Status = enums.FeeStatusPaid

	svc := newReminderService(t, feeRepo, studentRepo, sender)
	err := svc.SendReminder(context.Background(), entry.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected nothing sent")
	}
}

func TestSendReminderNoContactEmail(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	student := &models.Student{ID: uuid.New(), FirstName: "Ben", LastName: "Thomas"}
	studentRepo.students[student.ID] = student
	entry := addOutstandingEntry(feeRepo, student.ID)

	svc := newReminderService(t, feeRepo, studentRepo, sender)
	err := svc.SendReminder(context.Background(), entry.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing email, got %v", err)
	}
}

func TestSendBulkCountsSuccesses(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	reachable := &models.Student{ID: uuid.New(), FirstName: "Asha", LastName: "Nair", Email: strPtr("asha@example.com")}
	unreachable := &models.Student{ID: uuid.New(), FirstName: "Ben", LastName: "Thomas"}
	studentRepo.students[reachable.ID] = reachable
	studentRepo.students[unreachable.ID] = unreachable

	good := addOutstandingEntry(feeRepo, reachable.ID)
	bad := addOutstandingEntry(feeRepo, unreachable.ID)
	missing := uuid.New()

	svc := newReminderService(t, feeRepo, studentRepo, sender)
	sent, err := svc.SendBulk(context.Background(), []uuid.UUID{good.ID, bad.ID, missing})
	if sent != 1 {
		t.Fatalf("expected 1 sent, got %d", sent)
	}
	if err == nil {
		t.Fatalf("expected aggregated error for failures")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one delivery, got %d", len(sender.sent))
	}
}

func TestSendBulkRequiresIDs(t *testing.T) {
	t.Parallel()

	feeRepo, studentRepo, sender := newReminderFixture()
	svc := newReminderService(t, feeRepo, studentRepo, sender)

	_, err := svc.SendBulk(context.Background(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
