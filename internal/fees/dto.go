package fees

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// CreateEntryInput captures an explicit fee entry creation.
type CreateEntryInput struct {
	StudentID   uuid.UUID     `json:"student_id"`
	CourseID    *uuid.UUID    `json:"course_id"`
	AmountCents int64         `json:"amount_cents"`
	DueDate     time.Time     `json:"due_date"`
	FeeType     enums.FeeType `json:"fee_type"`
	Description *string       `json:"description"`
}

// RecordPaymentInput captures a payment against a student's aggregated
// balance.
type RecordPaymentInput struct {
	StudentID   uuid.UUID           `json:"student_id"`
	AmountCents int64               `json:"amount_cents"`
	Method      enums.PaymentMethod `json:"method"`
	Description *string             `json:"description"`
}

// PayEntryInput captures a direct payment against one ledger entry.
type PayEntryInput struct {
	EntryID     uuid.UUID           `json:"entry_id"`
	AmountCents int64               `json:"amount_cents"`
	Method      enums.PaymentMethod `json:"method"`
	Description *string             `json:"description"`
}

// PaymentResult reports the outcome of one payment transaction.
type PaymentResult struct {
	Receipt        *models.Receipt      `json:"receipt"`
	UpdatedEntries []models.LedgerEntry `json:"updated_entries"`
	AllocatedCents int64                `json:"allocated_cents"`
	// SurplusCents is the part of the payment that found no outstanding
	// entry to land on. It is recorded on the receipt but not applied.
	SurplusCents int64 `json:"surplus_cents"`
}
