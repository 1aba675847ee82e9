package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService("super-secret", time.Hour)

	tok, err := svc.Issue("user-123", "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	p, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestVerify_Idempotent(t *testing.T) {
	t.Parallel()

	svc := NewService("super-secret", time.Hour)
	tok, err := svc.Issue("u1", "a@b.c")
	require.NoError(t, err)

	first, err := svc.Verify(tok)
	require.NoError(t, err)
	second, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	svc := NewService("secret", -1*time.Second)
	tok, err := svc.Issue("u1", "a@b.c")
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewService("right-secret", time.Hour).Issue("u2", "a@b.c")
	require.NoError(t, err)

	_, err = NewService("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewService("k", time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_FailuresAreUniform(t *testing.T) {
	t.Parallel()

	svc := NewService("k", time.Hour)
	expired := NewService("k", -time.Minute)
	wrongKey := NewService("other", time.Hour)

	expiredTok, err := expired.Issue("u", "e")
	require.NoError(t, err)
	foreignTok, err := wrongKey.Issue("u", "e")
	require.NoError(t, err)

	for _, tok := range []string{"", "garbage", expiredTok, foreignTok} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
