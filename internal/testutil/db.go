package testutil

import (
	"regexp"
	"sdo_backend/pkg/database"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SetupTestDB opens a private in-memory SQLite database migrated with the
// production schema. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + unsafeName.ReplaceAllString(t.Name(), "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
