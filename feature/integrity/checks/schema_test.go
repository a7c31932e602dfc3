package checks

import (
	"testing"

	"chapter-sync/core/database"
	"chapter-sync/feature/library"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_Migrated(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, library.Migrate(db))

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.True(t, report.Matched)
	assert.Equal(t, "sqlite", report.Driver)
	assert.Equal(t, "ok", report.Tables["manga"].Status)
	assert.Equal(t, "ok", report.Tables["chapters"].Status)
	assert.Empty(t, report.Errors)
}

func TestCheckSchema_MissingColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	manga := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint", "NO", "PRI", nil, "auto_increment").
		AddRow("title", "varchar(512)", "NO", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `manga`").WillReturnRows(manga)
	mock.ExpectQuery("SHOW COLUMNS FROM `chapters`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db)
	require.NoError(t, err)

	assert.False(t, report.Matched)
	tbl, ok := report.Tables["manga"]
	require.True(t, ok)
	assert.Equal(t, "error", tbl.Status)
	assert.Contains(t, tbl.MissingColumns, "merged_url")
	assert.NotContains(t, tbl.MissingColumns, "title")

	_, ok = report.Tables["chapters"]
	assert.False(t, ok)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "chapters")
}
