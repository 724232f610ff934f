package models

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment links a student to a secondary course beyond their primary one.
type Enrollment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StudentID  uuid.UUID `gorm:"column:student_id;type:uuid;not null;index"`
	CourseID   uuid.UUID `gorm:"column:course_id;type:uuid;not null;index"`
	EnrolledAt time.Time `gorm:"column:enrolled_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	Course *Course `gorm:"foreignKey:CourseID"`
}
