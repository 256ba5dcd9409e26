package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianbank/console/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := hashPassword("customer@123")
	assert.NoError(t, err)
	assert.Contains(t, hash, "$")

	assert.True(t, verifyPassword("customer@123", hash))
	assert.False(t, verifyPassword("Customer@123", hash))
	assert.False(t, verifyPassword("customer@123", "not-a-hash"))

	// same password, fresh salt, different hash
	other, err := hashPassword("customer@123")
	assert.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestSessionTokens(t *testing.T) {
	srv := NewServer("test-secret", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := srv.issueToken(3001, models.RoleCustomer)
		assert.NoError(t, err)

		userID, role, err := srv.parseToken(token)
		assert.NoError(t, err)
		assert.EqualValues(t, 3001, userID)
		assert.Equal(t, models.RoleCustomer, role)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewServer("different-secret", time.Hour)
		token, err := other.issueToken(3001, models.RoleCustomer)
		assert.NoError(t, err)

		_, _, err = srv.parseToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		short := NewServer("test-secret", -time.Minute)
		token, err := short.issueToken(3001, models.RoleCustomer)
		assert.NoError(t, err)

		_, _, err = srv.parseToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, _, err := srv.parseToken("nonsense")
		assert.Error(t, err)
	})
}
