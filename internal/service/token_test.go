package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/parcel-ledger/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)

	token, exp, err := tm.Generate("rider@example.com", models.RoleRider, "Rahim", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	identity, err := tm.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", identity.Subject)
	assert.Equal(t, models.RoleRider, identity.Role)
	assert.Equal(t, "Rahim", identity.Name)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute)
	verifier := NewTokenManager("secret-b", time.Minute)

	token, _, err := issuer.Generate("admin@example.com", models.RoleAdmin, "", 0)
	require.NoError(t, err)

	_, err = verifier.ParseAccess(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	expired := NewTokenManager("test-secret", -time.Minute)
	token, _, err := expired.Generate("rider@example.com", models.RoleRider, "", 0)
	require.NoError(t, err)

	_, err = NewTokenManager("test-secret", time.Minute).ParseAccess(token)
	assert.Error(t, err)
}

func TestTokenManager_EmptySubject(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute)

	_, _, err := tm.Generate(" ", models.RoleRider, "", 0)
	assert.ErrorIs(t, err, ErrEmptySubject)
}
