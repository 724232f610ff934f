package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// Student is a member of the roster. Fee aggregation reads students; it never
// writes them.
type Student struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FirstName       string              `gorm:"column:first_name;not null"`
	LastName        string              `gorm:"column:last_name;not null"`
	Email           *string             `gorm:"column:email"`
	Phone           *string             `gorm:"column:phone"`
	AdmissionNumber *string             `gorm:"column:admission_number;unique"`
	Status          enums.StudentStatus `gorm:"column:status;type:student_status;not null;default:'active'"`
	PrimaryCourseID *uuid.UUID          `gorm:"column:primary_course_id;type:uuid"`
	GuardianID      *uuid.UUID          `gorm:"column:guardian_id;type:uuid"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	PrimaryCourse *Course      `gorm:"foreignKey:PrimaryCourseID"`
	Guardian      *Guardian    `gorm:"foreignKey:GuardianID"`
	Enrollments   []Enrollment `gorm:"foreignKey:StudentID"`
}

// FullName returns the display name used on receipts and reminders.
func (s *Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// CourseIDs returns the ordered, de-duplicated course list: the primary course
// first, then each enrolled course not already present.
func (s *Student) CourseIDs() []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	if s.PrimaryCourseID != nil {
		ids = append(ids, *s.PrimaryCourseID)
		seen[*s.PrimaryCourseID] = struct{}{}
	}
	for _, enrollment := range s.Enrollments {
		if _, ok := seen[enrollment.CourseID]; ok {
			continue
		}
		seen[enrollment.CourseID] = struct{}{}
		ids = append(ids, enrollment.CourseID)
	}
	return ids
}
