package enums

import "fmt"

// CourseStatus tracks whether a course is open for enrollment and billing.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "active"
	CourseStatusInactive CourseStatus = "inactive"
)

var validCourseStatuses = []CourseStatus{
	CourseStatusActive,
	CourseStatusInactive,
}

// String implements fmt.Stringer.
func (c CourseStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CourseStatus.
func (c CourseStatus) IsValid() bool {
	for _, candidate := range validCourseStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCourseStatus converts raw input into a CourseStatus.
func ParseCourseStatus(value string) (CourseStatus, error) {
	for _, candidate := range validCourseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid course status %q", value)
}
