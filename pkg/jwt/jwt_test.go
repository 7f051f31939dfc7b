package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "op-1", "admin", "stock-ledger-test", 60)
	require.NoError(t, err)

	subject, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "op-1", subject)
	assert.Equal(t, "admin", role)
}

func TestParse_Rejects(t *testing.T) {
	expired, err := pkgjwt.Generate(secret, "op-1", "admin", "stock-ledger-test", -1)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(secret, expired)
	assert.Error(t, err, "token expirado")

	valid, err := pkgjwt.Generate(secret, "op-1", "admin", "stock-ledger-test", 60)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse("otro-secret", valid)
	assert.Error(t, err, "secret incorrecto")

	_, _, err = pkgjwt.Parse("", valid)
	assert.Error(t, err, "secret vacío")

	_, err = pkgjwt.Generate("", "op-1", "admin", "x", 60)
	assert.Error(t, err)
}
