package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func seedUser(t *testing.T, db *gorm.DB, email string, role entities.UserRole, step int) *entities.User {
	t.Helper()
	u := &entities.User{
		Name:               "Test " + string(role),
		Email:              email,
		Phone:              "+15550001111",
		PasswordHash:       "hash",
		Role:               role,
		RegistrationStep:   step,
		RegistrationStatus: entities.RegistrationInProgress,
	}
	require.NoError(t, NewUserRepository(db).Create(t.Context(), u))
	return u
}
