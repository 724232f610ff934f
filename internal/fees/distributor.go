package fees

import (
	"sort"
	"time"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
)

// Allocation is the portion of a single payment applied to one ledger entry.
type Allocation struct {
	Entry       *models.LedgerEntry
	AmountCents int64
}

// Distribute walks the entries oldest due date first and applies the payment
// until it is exhausted. Entries are mutated in place: paid amount, status,
// and paid date when an entry becomes fully paid. It returns the allocations
// made and any surplus left after every entry was filled; the surplus is not
// applied anywhere — callers decide how to surface it.
func Distribute(entries []*models.LedgerEntry, paymentCents int64, now time.Time) ([]Allocation, int64) {
	ordered := make([]*models.LedgerEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DueDate.Equal(ordered[j].DueDate) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	remaining := paymentCents
	var allocations []Allocation
	for _, entry := range ordered {
		if remaining <= 0 {
			break
		}
		entryRemaining := entry.OutstandingCents()
		if entryRemaining <= 0 {
			continue
		}
		allocation := entryRemaining
		if remaining < allocation {
			allocation = remaining
		}

		entry.PaidCents += allocation
		if entry.PaidCents >= entry.AmountCents {
			entry.Status = enums.FeeStatusPaid
			paidAt := now
			entry.PaidDate = &paidAt
		} else {
			entry.Status = enums.FeeStatusPartial
		}
		remaining -= allocation

		allocations = append(allocations, Allocation{Entry: entry, AmountCents: allocation})
	}
	return allocations, remaining
}

// ApplyDirect applies a payment to a single entry without an allocation walk.
// No upper bound is enforced: a direct overpayment inflates the paid amount
// past the owed amount and the entry stays paid.
func ApplyDirect(entry *models.LedgerEntry, paymentCents int64, now time.Time) {
	entry.PaidCents += paymentCents
	if entry.PaidCents >= entry.AmountCents {
		entry.Status = enums.FeeStatusPaid
		paidAt := now
		entry.PaidDate = &paidAt
	} else {
		entry.Status = enums.FeeStatusPartial
	}
}

// SynthesizeEntries creates pending ledger entries from a student's enrolled
// courses, one per course at the course price, due immediately. Used when a
// payment arrives for a student who has courses but no ledger rows yet.
func SynthesizeEntries(student *models.Student, courses []models.Course, now time.Time) []*models.LedgerEntry {
	due := truncateToDate(now)
	entries := make([]*models.LedgerEntry, 0, len(courses))
	for _, course := range courses {
		courseID := course.ID
		description := course.Name + " course fee"
		entries = append(entries, &models.LedgerEntry{
			StudentID:   student.ID,
			CourseID:    &courseID,
			AmountCents: course.PriceCents,
			PaidCents:   0,
			DueDate:     due,
			Status:      enums.FeeStatusPending,
			FeeType:     enums.FeeTypeTuition,
			Description: &description,
		})
	}
	return entries
}
