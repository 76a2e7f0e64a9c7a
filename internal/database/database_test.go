package database_test

import (
	"context"
	"testing"

	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/database"
	"github.com/meridian-realty/dashboard-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLiteMigrateAndHealth(t *testing.T) {
	db, err := database.NewDatabase(&config.DatabaseConfig{Driver: database.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	agency := &domain.Agency{Name: "Fjord Homes", Slug: "fjord-homes", IsActive: true}
	require.NoError(t, db.Create(agency).Error)

	var count int64
	require.NoError(t, db.Model(&domain.Agency{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, database.HealthCheck(context.Background(), db))

	stats, err := database.HealthCheckWithStats(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "healthy", stats.Status)
	assert.Equal(t, "sqlite", stats.Dialect)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnknownDriver(t *testing.T) {
	_, err := database.NewDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
