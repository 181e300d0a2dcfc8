package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Tomlord1122/project-backend/internal/logger"
)

func newMockService(t *testing.T) (Service, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return NewFromDB(gdb, logger.Discard()), mock
}

func TestHealth_Up(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectPing()

	stats := svc.Health()

	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "healthy", stats["message"])
	assert.Contains(t, stats, "open_connections")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealth_Down(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	stats := svc.Health()

	assert.Equal(t, "down", stats["status"])
	assert.Equal(t, "database unavailable", stats["error"])
	assert.NotContains(t, stats["error"], "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPoolMessage(t *testing.T) {
	tests := []struct {
		name  string
		stats sql.DBStats
		want  string
	}{
		{"idle pool", sql.DBStats{}, "healthy"},
		{"heavy load", sql.DBStats{OpenConnections: 90, Idle: 90}, "the database is under heavy load"},
		{"waiting", sql.DBStats{OpenConnections: 10, Idle: 10, WaitCount: 1001}, "queries are waiting for free connections"},
		{"lifetime churn", sql.DBStats{OpenConnections: 4, MaxLifetimeClosed: 3}, "connections are recycled by max lifetime, consider raising DB_CONN_MAX_LIFETIME"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, poolMessage(tt.stats))
		})
	}
}

func TestClose(t *testing.T) {
	svc, mock := newMockService(t)
	mock.ExpectClose()

	require.NoError(t, svc.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
