package service

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T, secret string, now time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(secret)
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("")
	assert.ErrorIs(t, err, ErrMisconfigured)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestTokens(t, "super-secret", time.Now())

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestTokenPayloadShape(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m := newTestTokens(t, "secret", issued)

	tok, err := m.Issue("abc")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"id": "abc"}, claims["user"])
	assert.EqualValues(t, issued.Unix(), claims["iat"])
	assert.EqualValues(t, issued.Add(time.Hour).Unix(), claims["exp"])
}

func TestTokenDeterministic(t *testing.T) {
	at := time.Unix(1_700_000_000, 0)
	a, err := newTestTokens(t, "secret", at).Issue("u1")
	require.NoError(t, err)
	b, err := newTestTokens(t, "secret", at).Issue("u1")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := newTestTokens(t, "other-secret", at).Issue("u1")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestTokenExpired(t *testing.T) {
	issued := time.Now().Add(-time.Hour - time.Minute)
	tok, err := newTestTokens(t, "secret", issued).Issue("u1")
	require.NoError(t, err)

	_, err = newTestTokens(t, "secret", time.Now()).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenStillValidJustBeforeExpiry(t *testing.T) {
	issued := time.Now()
	tok, err := newTestTokens(t, "secret", issued).Issue("u1")
	require.NoError(t, err)

	_, err = newTestTokens(t, "secret", issued.Add(59*time.Minute)).Verify(tok)
	assert.NoError(t, err)
}

func TestTokenSignatureBitFlip(t *testing.T) {
	m := newTestTokens(t, "secret", time.Now())
	tok, err := m.Issue("u1")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for _, bit := range []int{0, 7, 8*len(sig) - 1} {
		flipped := append([]byte(nil), sig...)
		flipped[bit/8] ^= 1 << (bit % 8)
		tampered := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

		_, err := m.Verify(tampered)
		assert.ErrorIs(t, err, ErrTokenSignatureInvalid, "bit %d", bit)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := newTestTokens(t, "right-secret", time.Now()).Issue("u1")
	require.NoError(t, err)

	_, err = newTestTokens(t, "wrong-secret", time.Now()).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := tokenClaims{
		User: tokenUser{ID: "u1"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = newTestTokens(t, "secret", time.Now()).Verify(tok)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenMalformed(t *testing.T) {
	m := newTestTokens(t, "secret", time.Now())

	for _, tok := range []string{"garbage", "not.a.jwt", "a.b", ""} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestTokenWithoutUserIsMalformed(t *testing.T) {
	m := newTestTokens(t, "secret", time.Now())
	tok, err := m.Issue("")
	require.NoError(t, err)

	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
