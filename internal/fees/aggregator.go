package fees

import (
	"time"

	"github.com/google/uuid"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// AggregatedFeeView is the per-student rollup of ledger entries plus the
// expected totals derived from enrolled-course prices when no entries exist
// yet. It is a pure projection: recomputed on every read, never persisted.
type AggregatedFeeView struct {
	Student          models.Student
	Courses          []models.Course
	TotalAmountCents int64
	TotalPaidCents   int64
	RemainingCents   int64
	// Expected is true when the totals come from course prices rather than
	// ledger rows (the student has not been billed yet).
	Expected        bool
	Status          enums.FeeStatus
	EarliestDueDate time.Time
	LatestPaidDate  *time.Time
	Entries         []models.LedgerEntry
}

// Aggregate builds one consolidated fee view per student from already-fetched
// inputs. Students with neither ledger entries nor courses are dropped. The
// asOf time stands in for "today" where a student has no entries, which keeps
// the function deterministic for a fixed input set.
func Aggregate(students []models.Student, courses []models.Course, entries []models.LedgerEntry, asOf time.Time) []AggregatedFeeView {
	courseByID := make(map[uuid.UUID]models.Course, len(courses))
	for _, course := range courses {
		courseByID[course.ID] = course
	}

	entriesByStudent := make(map[uuid.UUID][]models.LedgerEntry, len(students))
	for _, entry := range entries {
		entriesByStudent[entry.StudentID] = append(entriesByStudent[entry.StudentID], entry)
	}

	views := make([]AggregatedFeeView, 0, len(students))
	for _, student := range students {
		var studentCourses []models.Course
		for _, id := range student.CourseIDs() {
			if course, ok := courseByID[id]; ok {
				studentCourses = append(studentCourses, course)
			}
		}

		studentEntries := entriesByStudent[student.ID]
		if len(studentEntries) == 0 && len(studentCourses) == 0 {
			continue
		}

		view := AggregatedFeeView{
			Student: student,
			Courses: studentCourses,
			Entries: studentEntries,
		}

		if len(studentEntries) == 0 {
			// Not billed yet: report the expected total from course prices.
			for _, course := range studentCourses {
				view.TotalAmountCents += course.PriceCents
			}
			view.Expected = true
			view.EarliestDueDate = truncateToDate(asOf)
		} else {
			earliest := studentEntries[0].DueDate
			for _, entry := range studentEntries {
				view.TotalAmountCents += entry.AmountCents
				view.TotalPaidCents += entry.PaidCents
				if entry.DueDate.Before(earliest) {
					earliest = entry.DueDate
				}
				if entry.PaidDate != nil && (view.LatestPaidDate == nil || entry.PaidDate.After(*view.LatestPaidDate)) {
					paid := *entry.PaidDate
					view.LatestPaidDate = &paid
				}
			}
			view.EarliestDueDate = earliest
		}

		if remaining := view.TotalAmountCents - view.TotalPaidCents; remaining > 0 {
			view.RemainingCents = remaining
		}
		view.Status = deriveStatus(view.TotalPaidCents, view.RemainingCents)

		views = append(views, view)
	}
	return views
}

// deriveStatus applies the aggregate status rule. Order matters: partial wins
// over paid when anything remains, and a zero-amount aggregate stays pending.
// Overdue is never derived here; only the scheduled sweep sets it on entries.
func deriveStatus(paidCents, remainingCents int64) enums.FeeStatus {
	switch {
	case remainingCents > 0 && paidCents > 0:
		return enums.FeeStatusPartial
	case remainingCents <= 0 && paidCents > 0:
		return enums.FeeStatusPaid
	default:
		return enums.FeeStatusPending
	}
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
