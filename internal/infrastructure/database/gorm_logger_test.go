package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/laundry-api/internal/domain/entity"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := NewSQLiteDB(dsn, false, zap.New(core))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db, zap.NewNop()))

	err = db.First(&entity.Tenant{}, "slug = ?", "nowhere").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.Zero(t, logs.FilterMessage("gorm query failed").Len())

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	failed := logs.FilterMessage("gorm query failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, "gorm", failed[0].LoggerName)
	require.Equal(t, zapcore.ErrorLevel, failed[0].Level)
}

func TestGormLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	db, err := NewSQLiteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), false, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var one int
	quiet := newGormLogger(zap.New(core), logger.Warn)
	require.NoError(t, db.Session(&gorm.Session{Logger: quiet}).Raw("SELECT 1").Scan(&one).Error)
	require.Zero(t, logs.FilterMessage("gorm query").Len())

	verbose := quiet.LogMode(logger.Info)
	require.NoError(t, db.Session(&gorm.Session{Logger: verbose}).Raw("SELECT 1").Scan(&one).Error)
	require.Equal(t, 1, one)
	require.Equal(t, 1, logs.FilterMessage("gorm query").Len())

	silent := quiet.LogMode(logger.Silent)
	require.Error(t, db.Session(&gorm.Session{Logger: silent}).Exec("SELECT * FROM no_such_table").Error)
	require.Zero(t, logs.FilterMessage("gorm query failed").Len())
}
