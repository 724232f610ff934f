package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// Course is a billable program with a fixed price. Read-only input to fee
// aggregation and ledger synthesis.
type Course struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string             `gorm:"column:name;not null"`
	PriceCents int64              `gorm:"column:price_cents;not null"`
	Status     enums.CourseStatus `gorm:"column:status;type:course_status;not null;default:'active'"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
