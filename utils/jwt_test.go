package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachfit/coachfit/utils"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := utils.NewTokenManager("secret", 30*time.Minute)

	token, expires, err := tm.Generate(42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expires, 5*time.Second)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
}

func TestTokenExpiry(t *testing.T) {
	tm := utils.NewTokenManager("secret", -time.Minute)
	token, _, err := tm.Generate(42)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.Error(t, err)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := utils.NewTokenManager("secret-a", time.Minute)
	verifier := utils.NewTokenManager("secret-b", time.Minute)

	token, _, err := issuer.Generate(42)
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	tm := utils.NewTokenManager("secret", time.Minute)
	_, err := tm.Parse("not.a.token")
	assert.Error(t, err)
}

func TestBlacklistExpiresNaturally(t *testing.T) {
	utils.BlacklistToken("revoked-token", time.Now().Add(time.Minute))
	assert.True(t, utils.IsTokenBlacklisted("revoked-token"))
	assert.False(t, utils.IsTokenBlacklisted("other-token"))

	utils.BlacklistToken("stale-token", time.Now().Add(-time.Second))
	assert.False(t, utils.IsTokenBlacklisted("stale-token"))
}

func TestSanitizeStripsMarkup(t *testing.T) {
	assert.Equal(t, "hello", utils.Sanitize("<b>hello</b>"))
	assert.NotContains(t, utils.Sanitize(`x <script>alert(1)</script>`), "script")
	assert.Equal(t, "plain text", utils.Sanitize("plain text"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, utils.CheckPassword(hash, "correct horse"))
	assert.False(t, utils.CheckPassword(hash, "wrong"))
}
