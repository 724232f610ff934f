package fees

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
	pkgerrors "github.com/vinzencor/student-management-backend/pkg/errors"
)

func setupFeesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ledgerEntries := `
CREATE TABLE IF NOT EXISTS ledger_entries (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  course_id TEXT,
  amount_cents INTEGER NOT NULL,
  paid_cents INTEGER NOT NULL DEFAULT 0,
  due_date DATETIME NOT NULL,
  paid_date DATETIME,
  status TEXT NOT NULL DEFAULT 'pending',
  fee_type TEXT NOT NULL DEFAULT 'tuition',
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ledgerEntries).Error)
	return db
}

func createLedgerEntry(t *testing.T, db *gorm.DB, studentID uuid.UUID, amountCents, paidCents int64, due time.Time, status enums.FeeStatus) *models.LedgerEntry {
	t.Helper()

	entry := &models.LedgerEntry{
		ID:          uuid.New(),
		StudentID:   studentID,
		AmountCents: amountCents,
		PaidCents:   paidCents,
		DueDate:     due,
		Status:      status,
		FeeType:     enums.FeeTypeTuition,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func TestRepositoryListOutstanding_ordersByDueDate(t *testing.T) {
	db := setupFeesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	otherID := uuid.New()

	late := createLedgerEntry(t, db, studentID, 30000, 0, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPending)
	early := createLedgerEntry(t, db, studentID, 50000, 10000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPartial)
	overdue := createLedgerEntry(t, db, studentID, 20000, 0, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusOverdue)
	createLedgerEntry(t, db, studentID, 10000, 10000, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPaid)
	createLedgerEntry(t, db, otherID, 10000, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPending)

	entries, err := repo.ListOutstanding(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, overdue.ID, entries[0].ID)
	require.Equal(t, early.ID, entries[1].ID)
	require.Equal(t, late.ID, entries[2].ID)
}

func TestRepositoryFindByID_notFound(t *testing.T) {
	db := setupFeesTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRepositoryUpdatePersistsAllocation(t *testing.T) {
	db := setupFeesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	entry := createLedgerEntry(t, db, studentID, 40000, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPending)

	paidAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	entry.PaidCents = 40000
	entry.Status = enums.FeeStatusPaid
	entry.PaidDate = &paidAt
	require.NoError(t, repo.Update(ctx, entry))

	stored, err := repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	require.Equal(t, int64(40000), stored.PaidCents)
	require.Equal(t, enums.FeeStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidDate)
}

func TestRepositoryCreateBatch(t *testing.T) {
	db := setupFeesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	courseID := uuid.New()
	entries := []*models.LedgerEntry{
		{ID: uuid.New(), StudentID: studentID, CourseID: &courseID, AmountCents: 90000, DueDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Status: enums.FeeStatusPending, FeeType: enums.FeeTypeTuition},
		{ID: uuid.New(), StudentID: studentID, AmountCents: 50000, DueDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), Status: enums.FeeStatusPending, FeeType: enums.FeeTypeTuition},
	}
	require.NoError(t, repo.CreateBatch(ctx, entries))

	listed, err := repo.ListByStudent(ctx, studentID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
}

func TestRepositoryMarkOverdue(t *testing.T) {
	db := setupFeesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	pastDue := createLedgerEntry(t, db, studentID, 30000, 0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPending)
	future := createLedgerEntry(t, db, studentID, 30000, 0, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPending)
	partial := createLedgerEntry(t, db, studentID, 30000, 10000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), enums.FeeStatusPartial)

	changed, err := repo.MarkOverdue(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, int64(1), changed)

	stored, err := repo.FindByID(ctx, pastDue.ID)
	require.NoError(t, err)
	require.Equal(t, enums.FeeStatusOverdue, stored.Status)

	stored, err = repo.FindByID(ctx, future.ID)
	require.NoError(t, err)
	require.Equal(t, enums.FeeStatusPending, stored.Status)

	stored, err = repo.FindByID(ctx, partial.ID)
	require.NoError(t, err)
	require.Equal(t, enums.FeeStatusPartial, stored.Status)
}
