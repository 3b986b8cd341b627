package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gotest.tools/v3/assert"

	"github.com/artem13815/travelinfo/pkg/auth"
)

var issuedAt = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newPair(secret string, at time.Time) (*Generator, *Verifier) {
	g := NewGenerator(secret, "travelinfo", time.Hour)
	g.now = fixedClock(at)
	v := NewVerifier(secret, "travelinfo")
	return g, v
}

func TestGenerateAndVerify(t *testing.T) {
	g, v := newPair("super-secret", issuedAt)
	v.now = fixedClock(issuedAt.Add(time.Minute))

	tok, err := g.Generate(context.Background(), auth.User{ID: "user-123", Username: "alice"})
	assert.NilError(t, err)

	claims, err := v.Verify(tok)
	assert.NilError(t, err)
	assert.Equal(t, claims.Subject, "user-123")
	assert.Equal(t, claims.Username, "alice")
	assert.Equal(t, claims.Issuer, "travelinfo")
	assert.Assert(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.Assert(t, claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)))
}

func TestVerify_ExpiryBoundary(t *testing.T) {
	g, v := newPair("k", issuedAt)
	tok, err := g.Generate(context.Background(), auth.User{ID: "u1"})
	assert.NilError(t, err)

	v.now = fixedClock(issuedAt.Add(time.Hour - time.Second))
	_, err = v.Verify(tok)
	assert.NilError(t, err)

	v.now = fixedClock(issuedAt.Add(time.Hour))
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	v.now = fixedClock(issuedAt.Add(2 * time.Hour))
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerify_SubSecondIssue(t *testing.T) {
	at := issuedAt.Add(700 * time.Millisecond)
	g, v := newPair("k", at)
	tok, err := g.Generate(context.Background(), auth.User{ID: "u1"})
	assert.NilError(t, err)

	v.now = fixedClock(at)
	claims, err := v.Verify(tok)
	assert.NilError(t, err)
	assert.Assert(t, claims.IssuedAt.Time.Equal(issuedAt))
	assert.Equal(t, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time), time.Hour)

	v.now = fixedClock(issuedAt.Add(time.Hour - time.Nanosecond))
	_, err = v.Verify(tok)
	assert.NilError(t, err)

	// one hour after the sub-second issue instant is already past exp
	v.now = fixedClock(at.Add(time.Hour))
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	g, _ := newPair("right-secret", issuedAt)
	_, v := newPair("wrong-secret", issuedAt)
	v.now = fixedClock(issuedAt)

	tok, err := g.Generate(context.Background(), auth.User{ID: "u2"})
	assert.NilError(t, err)

	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongIssuer(t *testing.T) {
	g := NewGenerator("k", "someone-else", time.Hour)
	g.now = fixedClock(issuedAt)
	v := NewVerifier("k", "travelinfo")
	v.now = fixedClock(issuedAt)

	tok, err := g.Generate(context.Background(), auth.User{ID: "u3"})
	assert.NilError(t, err)

	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	v := NewVerifier("k", "")
	_, err := v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u4",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NilError(t, err)

	_, err = NewVerifier("k", "").Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u5"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	assert.NilError(t, err)

	_, err = NewVerifier("k", "").Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewGenerator_DefaultTTL(t *testing.T) {
	g := NewGenerator("k", "", 0)
	assert.Equal(t, g.ttl, DefaultTTL)
}
