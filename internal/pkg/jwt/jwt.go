// Package jwt verifies Supabase Auth access tokens for the admin API.
package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("user is not an administrator")
)

// authenticatedRole is the role Supabase puts on signed-in users.
const authenticatedRole = "authenticated"

// Claims is the subset of the Supabase access token payload we read.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwtlib.RegisteredClaims
}

// Verifier checks HS256 tokens signed with the project JWT secret.
type Verifier struct {
	secret []byte
	issuer string
	admins map[string]bool
	now    func() time.Time
}

// NewVerifier builds a verifier. supabaseURL, when set, pins the issuer.
// An empty adminEmails list admits every authenticated user.
func NewVerifier(secret, supabaseURL string, adminEmails []string) *Verifier {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = true
		}
	}
	issuer := ""
	if supabaseURL != "" {
		issuer = strings.TrimRight(supabaseURL, "/") + "/auth/v1"
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, admins: admins, now: time.Now}
}

// Verify validates tokenStr and checks the admin allow-list.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithAudience(authenticatedRole),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(30 * time.Second),
		jwtlib.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(v.issuer))
	}
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(*jwtlib.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Role != authenticatedRole {
		return nil, ErrInvalidToken
	}
	if len(v.admins) > 0 && !v.admins[strings.ToLower(claims.Email)] {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

// Sign issues a token the way Supabase does. It is used by tests and the
// local development token command.
func (v *Verifier) Sign(userID, email string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{
		Email: email,
		Role:  authenticatedRole,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			Issuer:    v.issuer,
			Audience:  jwtlib.ClaimStrings{authenticatedRole},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(v.secret)
}
