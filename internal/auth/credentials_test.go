package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutKeyStartsUnauthorized(t *testing.T) {
	creds := New("")

	assert.False(t, creds.Authorized())
	assert.False(t, creds.HasSelectedCredential())
	assert.Empty(t, creds.APIKey())
}

func TestNewWithKeyIsAuthorized(t *testing.T) {
	creds := New("key-1")

	assert.True(t, creds.Authorized())
	assert.True(t, creds.HasSelectedCredential())
	assert.Equal(t, "key-1", creds.APIKey())
}

func TestSelectGrantsOptimistically(t *testing.T) {
	creds := New("")
	creds.Revoke()

	creds.Select("  key-2  ")

	assert.True(t, creds.Authorized(), "selection alone grants, no verification call")
	assert.Equal(t, "key-2", creds.APIKey())
}

func TestRevokeIsMonotonicUntilNextSelect(t *testing.T) {
	creds := New("key-1")

	creds.Revoke()
	assert.False(t, creds.Authorized())
	assert.True(t, creds.HasSelectedCredential(), "revocation keeps the key, only the flag drops")

	// Repeated revocations stay down.
	creds.Revoke()
	assert.False(t, creds.Authorized())

	// Only a fresh selection restores the grant.
	creds.Select("key-2")
	assert.True(t, creds.Authorized())
}

func TestSelectEmptyClearsGrant(t *testing.T) {
	creds := New("key-1")

	creds.Select("   ")

	assert.False(t, creds.Authorized())
	assert.False(t, creds.HasSelectedCredential())
}
