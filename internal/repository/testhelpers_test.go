package repository

import (
	"path/filepath"
	"testing"

	"concerthall/internal/database"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	log, _ := test.NewNullLogger()
	db, err := database.Connect(filepath.Join(t.TempDir(), "concerthall_test.db"), log)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
