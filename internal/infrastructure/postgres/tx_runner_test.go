package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestTxOptionsFromConfig(t *testing.T) {
	tests := []struct {
		iso  string
		want pgx.TxIsoLevel
	}{
		{"read_committed", pgx.ReadCommitted},
		{"repeatable_read", pgx.RepeatableRead},
		{"serializable", pgx.Serializable},
		{"", pgx.ReadCommitted},
	}
	for _, tt := range tests {
		opts := TxOptionsFromConfig(config.DBConfig{TxIsolation: tt.iso, StatementTimeout: 5 * time.Second})
		assert.Equal(t, tt.want, opts.IsoLevel, tt.iso)
		assert.Equal(t, 5*time.Second, opts.StatementTimeout)
	}
}
