package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "entrepot nord", textnorm.Fold("  Entrepôt   Nord "))
	assert.Equal(t, "etage 1", textnorm.Fold("Étage 1"))
	assert.True(t, textnorm.Equal("Dépôt Central", "depot central"))
	assert.False(t, textnorm.Equal("Dépôt A", "Dépôt B"))
}
