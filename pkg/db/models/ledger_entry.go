package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// LedgerEntry is one billable obligation for a student. Entries are created by
// explicit fee entry or synthesized from enrolled-course prices on first
// payment; they are mutated by payment allocation and never deleted.
type LedgerEntry struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID   uuid.UUID       `gorm:"column:student_id;type:uuid;not null;index"`
	CourseID    *uuid.UUID      `gorm:"column:course_id;type:uuid"`
	AmountCents int64           `gorm:"column:amount_cents;not null"`
	PaidCents   int64           `gorm:"column:paid_cents;not null;default:0"`
	DueDate     time.Time       `gorm:"column:due_date;type:date;not null"`
	PaidDate    *time.Time      `gorm:"column:paid_date"`
	Status      enums.FeeStatus `gorm:"column:status;type:fee_status;not null;default:'pending'"`
	FeeType     enums.FeeType   `gorm:"column:fee_type;type:fee_type;not null;default:'tuition'"`
	Description *string         `gorm:"column:description"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// OutstandingCents returns the unpaid remainder of this entry. Overpaid
// entries report a negative value; callers clamp where it matters.
func (e *LedgerEntry) OutstandingCents() int64 {
	return e.AmountCents - e.PaidCents
}
