package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

func TestMigrateModels_NotInitialized(t *testing.T) {
	prev := DB
	DB = nil
	defer func() { DB = prev }()

	err := MigrateModels()
	assert.EqualError(t, err, "database is not initialized")
	assert.Error(t, Ping())
}

func TestOpenAndPing(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	// one ping from gorm.Open, one from Ping
	mock.ExpectPing()
	mock.ExpectPing()

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), logger.Silent)
	require.NoError(t, err)

	prev := DB
	DB = db
	defer func() { DB = prev }()

	assert.Same(t, db, GetDB())
	assert.NoError(t, Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}
