package auth

import (
	"testing"
	"time"

	"opportunity_hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("secret")
	token, err := m.Issue(42, domain.RoleEmployer)
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: 42, Role: domain.RoleEmployer}, id)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one").Issue(1, domain.RoleStudent)
	require.NoError(t, err)
	_, err = NewTokenManager("two").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("secret")
	issued := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.Issue(1, domain.RoleStudent)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	claims := Claims{UserID: 1, Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = NewTokenManager("secret").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "battery staple"))
}
