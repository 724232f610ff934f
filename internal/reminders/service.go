package reminders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/vinzencor/student-management-backend/internal/fees"
	"github.com/vinzencor/student-management-backend/internal/students"
	"github.com/vinzencor/student-management-backend/pkg/db/models"
	apperrors "github.com/vinzencor/student-management-backend/pkg/errors"
	"github.com/vinzencor/student-management-backend/pkg/logger"
	"github.com/vinzencor/student-management-backend/pkg/mailer"
)

// Sender delivers one fee reminder. The production implementation is the
// SendGrid mailer.
type Sender interface {
	SendFeeReminder(ctx context.Context, msg mailer.ReminderEmail) error
}

// Service sends payment reminders for outstanding ledger entries.
type Service interface {
	SendReminder(ctx context.Context, entryID uuid.UUID) error
	SendBulk(ctx context.Context, entryIDs []uuid.UUID) (int, error)
}

type service struct {
	feeRepo      fees.Repository
	studentsRepo students.Repository
	sender       Sender
	logg         *logger.Logger
}

// NewService wires the reminder service with its collaborators.
func NewService(feeRepo fees.Repository, studentsRepo students.Repository, sender Sender, logg *logger.Logger) (Service, error) {
	if feeRepo == nil {
		return nil, fmt.Errorf("fee repository required")
	}
	if studentsRepo == nil {
		return nil, fmt.Errorf("student repository required")
	}
	if sender == nil {
		return nil, fmt.Errorf("reminder sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		feeRepo:      feeRepo,
		studentsRepo: studentsRepo,
		sender:       sender,
		logg:         logg,
	}, nil
}

// SendReminder sends one reminder for the given ledger entry. A fully paid
// entry is rejected before anything is sent.
func (s *service) SendReminder(ctx context.Context, entryID uuid.UUID) error {
	if entryID == uuid.Nil {
		return apperrors.New(apperrors.CodeValidation, "ledger entry id required")
	}

	entry, err := s.feeRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if !entry.Status.IsOutstanding() {
		return apperrors.New(apperrors.CodeValidation, "ledger entry has no outstanding balance")
	}

	student, err := s.studentsRepo.FindByID(ctx, entry.StudentID)
	if err != nil {
		return err
	}

	msg, err := buildReminder(student, entry)
	if err != nil {
		return err
	}
	if err := s.sender.SendFeeReminder(ctx, msg); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "delivering fee reminder")
	}
	return nil
}

// SendBulk sends a reminder per entry and returns how many were delivered.
// Individual failures are collected rather than aborting the batch.
func (s *service) SendBulk(ctx context.Context, entryIDs []uuid.UUID) (int, error) {
	if len(entryIDs) == 0 {
		return 0, apperrors.New(apperrors.CodeValidation, "at least one ledger entry id required")
	}

	var sent int
	var errs error
	for _, entryID := range entryIDs {
		if err := s.SendReminder(ctx, entryID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %s: %w", entryID, err))
			continue
		}
		sent++
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"requested": len(entryIDs),
		"sent":      sent,
	}), "bulk fee reminders processed")
	return sent, errs
}

// buildReminder resolves the recipient: the student's own email when present,
// the guardian's otherwise.
func buildReminder(student *models.Student, entry *models.LedgerEntry) (mailer.ReminderEmail, error) {
	msg := mailer.ReminderEmail{
		StudentName:  student.FullName(),
		AmountCents:  entry.AmountCents,
		BalanceCents: entry.OutstandingCents(),
		DueDate:      entry.DueDate,
	}
	if entry.Description != nil && *entry.Description != "" {
		msg.Description = *entry.Description
	} else {
		msg.Description = entry.FeeType.String() + " fee"
	}

	switch {
	case student.Email != nil && *student.Email != "":
		msg.ToName = student.FullName()
		msg.ToEmail = *student.Email
	case student.Guardian != nil && student.Guardian.Email != nil && *student.Guardian.Email != "":
		msg.ToName = student.Guardian.Name
		msg.ToEmail = *student.Guardian.Email
	default:
		return mailer.ReminderEmail{}, apperrors.New(apperrors.CodeValidation, "student has no contact email")
	}
	return msg, nil
}
