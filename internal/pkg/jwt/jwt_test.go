package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "super-secret-jwt-token-with-at-least-32-characters"

func TestVerifyAcceptsAdmin(t *testing.T) {
	v := NewVerifier(secret, "https://proj.supabase.co/", []string{" Admin@Soldertec.mx "})
	tok, err := v.Sign("user-1", "admin@soldertec.mx", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "https://proj.supabase.co/auth/v1", claims.Issuer)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier(secret, "", []string{"admin@soldertec.mx"})

	tok, err := v.Sign("user-2", "intruso@example.com", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, ErrNotAdmin)

	expired, err := v.Sign("user-1", "admin@soldertec.mx", -time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewVerifier("another-secret-another-secret-another", "", nil)
	forged, err := other.Sign("user-1", "admin@soldertec.mx", time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequiresAuthenticatedRole(t *testing.T) {
	v := NewVerifier(secret, "", nil)
	anon := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		Role: "anon",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "x",
			Audience:  jwtlib.ClaimStrings{"authenticated"},
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := anon.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512 := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, Claims{
		Role: "authenticated",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   "x",
			Audience:  jwtlib.ClaimStrings{"authenticated"},
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err = hs512.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptyAllowListAdmitsAnyUser(t *testing.T) {
	v := NewVerifier(secret, "", nil)
	tok, err := v.Sign("user-3", "editor@example.com", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	assert.NoError(t, err)
}
