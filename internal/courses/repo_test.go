package courses

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vinzencor/student-management-backend/pkg/db/models"
	"github.com/vinzencor/student-management-backend/pkg/enums"
)

func setupCoursesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	courses := `
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(courses).Error)
	return db
}

func createCourse(t *testing.T, db *gorm.DB, name string, priceCents int64, status enums.CourseStatus) *models.Course {
	t.Helper()
	course := &models.Course{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Status:     status,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func TestListActiveOrdersByNameAndFiltersInactive(t *testing.T) {
	db := setupCoursesTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	createCourse(t, db, "Physics", 200000, enums.CourseStatusActive)
	createCourse(t, db, "Mathematics", 250000, enums.CourseStatusActive)
	createCourse(t, db, "Latin", 100000, enums.CourseStatusInactive)

	active, err := repository.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "Mathematics", active[0].Name)
	require.Equal(t, "Physics", active[1].Name)
}

func TestFindByIDs(t *testing.T) {
	db := setupCoursesTestDB(t)
	repository := NewRepository(db)
	ctx := context.Background()

	math := createCourse(t, db, "Mathematics", 250000, enums.CourseStatusActive)
	createCourse(t, db, "Physics", 200000, enums.CourseStatusActive)

	found, err := repository.FindByIDs(ctx, []uuid.UUID{math.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, math.ID, found[0].ID)
	require.Equal(t, int64(250000), found[0].PriceCents)

	none, err := repository.FindByIDs(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, none)
}
