package receipts

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

func setupReceiptsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	receipts := `
CREATE TABLE IF NOT EXISTS receipts (
  id TEXT PRIMARY KEY,
  number TEXT NOT NULL UNIQUE,
  student_id TEXT NOT NULL,
  student_name TEXT NOT NULL,
  course_name TEXT NOT NULL,
  amount_cents INTEGER NOT NULL,
  payment_date DATETIME NOT NULL,
  method TEXT NOT NULL DEFAULT 'cash',
  description TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(receipts).Error)
	return db
}

func createReceipt(t *testing.T, db *gorm.DB, studentID uuid.UUID, number string, paid time.Time, created time.Time) *models.Receipt {
	t.Helper()

	receipt := &models.Receipt{
		ID:          uuid.New(),
		Number:      number,
		StudentID:   studentID,
		StudentName: "Asha Nair",
		CourseName:  "Mathematics",
		AmountCents: 50000,
		PaymentDate: paid,
		Method:      enums.PaymentMethodCash,
		CreatedAt:   created,
	}
	require.NoError(t, db.Create(receipt).Error)
	return receipt
}

func TestRepositoryCreate_duplicateNumberConflicts(t *testing.T) {
	db := setupReceiptsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := &models.Receipt{
		ID:          uuid.New(),
		Number:      "RCP-20260310-0001",
		StudentID:   uuid.New(),
		StudentName: "Asha Nair",
		CourseName:  "Mathematics",
		AmountCents: 10000,
		PaymentDate: time.Now(),
		Method:      enums.PaymentMethodCash,
	}
	require.NoError(t, repo.Create(ctx, first))

	duplicate := &models.Receipt{
		ID:          uuid.New(),
		Number:      "RCP-20260310-0001",
		StudentID:   uuid.New(),
		StudentName: "Ben Thomas",
		CourseName:  "Physics",
		AmountCents: 20000,
		PaymentDate: time.Now(),
		Method:      enums.PaymentMethodCard,
	}
	err := repo.Create(ctx, duplicate)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRepositoryList_paginatesNewestFirst(t *testing.T) {
	db := setupReceiptsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		createReceipt(t, db, studentID, fmt.Sprintf("RCP-PAGE-%04d", i), base.AddDate(0, 0, i), base.AddDate(0, 0, i))
	}

	page, cursor, err := repo.List(ctx, ListReceiptsQuery{StudentID: &studentID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, cursor)
	require.Equal(t, "RCP-PAGE-0004", page[0].Number)
	require.Equal(t, "RCP-PAGE-0003", page[1].Number)

	next, _, err := repo.List(ctx, ListReceiptsQuery{StudentID: &studentID, Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, next, 2)
	require.Equal(t, "RCP-PAGE-0002", next[0].Number)
}

func TestRepositoryList_filtersByPaymentDate(t *testing.T) {
	db := setupReceiptsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	studentID := uuid.New()
	january := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	march := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	createReceipt(t, db, studentID, "RCP-JAN", january, january)
	createReceipt(t, db, studentID, "RCP-MAR", march, march)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	listed, _, err := repo.List(ctx, ListReceiptsQuery{StudentID: &studentID, From: &from})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "RCP-MAR", listed[0].Number)

	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	listed, _, err = repo.List(ctx, ListReceiptsQuery{StudentID: &studentID, To: &to})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "RCP-JAN", listed[0].Number)
}

func TestNumberGeneratorUniqueWithinSecond(t *testing.T) {
	t.Parallel()

	gen := NewNumberGenerator()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	first := gen.Next(now)
	second := gen.Next(now)
	require.NotEqual(t, first, second)
	require.Contains(t, first, "20260310093000")
}
