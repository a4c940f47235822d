package config

import (
	"catalog/infra/sqlstore"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestReadAppliesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg := Read()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, sqlstore.DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "9090", cfg.GRPCPort)
	assert.Equal(t, "catalog", cfg.ServiceName)
	assert.False(t, cfg.SeedDemoData)
	assert.False(t, cfg.StorageEnabled())
}

func TestReadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("DB_DRIVER", sqlstore.DriverSQLite)
	t.Setenv("DB_DSN", "file:catalog.db")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("AWS_BUCKET", "catalog-images")

	cfg := Read()

	assert.Equal(t, sqlstore.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file:catalog.db", cfg.DSN())
	assert.True(t, cfg.SeedDemoData)
	assert.True(t, cfg.StorageEnabled())
}

func TestDSNBuildsPostgresConnectionString(t *testing.T) {
	cfg := &AppConfig{
		DBDriver:         sqlstore.DriverPostgres,
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUsername: "catalog",
		PostgresPassword: "secret",
		PostgresDatabase: "shop",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, sqlstore.PostgresDSN("db", "5433", "catalog", "secret", "shop", "disable"), cfg.DSN())

	cfg.DBDSN = "postgres://override"
	assert.Equal(t, "postgres://override", cfg.DSN())
}
