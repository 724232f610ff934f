package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// Receipt is the immutable record of one payment transaction. A single receipt
// may cover allocations across several ledger entries.
type Receipt struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Number      string              `gorm:"column:number;not null;unique"`
	StudentID   uuid.UUID           `gorm:"column:student_id;type:uuid;not null;index"`
	StudentName string              `gorm:"column:student_name;not null"`
	CourseName  string              `gorm:"column:course_name;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	PaymentDate time.Time           `gorm:"column:payment_date;not null"`
	Method      enums.PaymentMethod `gorm:"column:method;type:payment_method;not null;default:'cash'"`
	Description *string             `gorm:"column:description"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
