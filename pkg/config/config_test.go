package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "stock-ledger", cfg.App.Name)
	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.DB.StatementTimeout)
	assert.True(t, cfg.Inventory.ExaminationOnEntry)
	assert.False(t, cfg.Inventory.StrictFIFO)
	assert.Equal(t, 16, cfg.Realtime.ClientBuffer)
	assert.Equal(t, 25*time.Second, cfg.Realtime.Heartbeat)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("INVENTORY_STRICT_FIFO", "true")
	t.Setenv("INVENTORY_EXAMINATION_ON_ENTRY", "false")
	t.Setenv("DB_STATEMENT_TIMEOUT_SECONDS", "5")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Inventory.StrictFIFO)
	assert.False(t, cfg.Inventory.ExaminationOnEntry)
	assert.Equal(t, 5*time.Second, cfg.DB.StatementTimeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mysql")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_TX_ISOLATION", "chaos")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapesPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())
}
