package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	SetHashCost(bcrypt.MinCost)
	t.Cleanup(func() { SetHashCost(DefaultCost) })

	hash, err := HashPassword("Secret123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, CheckPassword("Secret123!", hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestSetHashCost_ClampsToMinimum(t *testing.T) {
	t.Cleanup(func() { SetHashCost(DefaultCost) })
	SetHashCost(1)
	assert.Equal(t, bcrypt.MinCost, hashCost)
}

func TestGenerateRandomToken(t *testing.T) {
	token, err := GenerateRandomToken(16)
	assert.NoError(t, err)
	assert.Len(t, token, 32)

	sid, err := GenerateSessionID()
	assert.NoError(t, err)
	assert.Len(t, sid, 64)
}

func TestHashPasswordAndGenerateRandomToken_ErrorBranches(t *testing.T) {
	origBcrypt := bcryptGenerateFromPassword
	origRandRead := randomRead
	t.Cleanup(func() {
		bcryptGenerateFromPassword = origBcrypt
		randomRead = origRandRead
	})

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) {
		return nil, errors.New("bcrypt failed")
	}
	_, err := HashPassword("Secret123!")
	assert.Error(t, err)

	randomRead = func([]byte) (int, error) {
		return 0, errors.New("rand failed")
	}
	_, err = GenerateSessionID()
	assert.Error(t, err)
}
