package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Actor roles embedded in issued tokens.
const (
	RoleHospital = "hospital"
	RoleDoctor   = "doctor"
	RolePatient  = "patient"
)

// Claims carries the authenticated actor identity and role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Signer issues and verifies HS256 tokens for hospital, doctor and patient
// actors. One signer instance is shared by all login endpoints and the
// request middleware.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token embedding the actor identifier, role and
// expiry.
func (s *Signer) Issue(actorID uuid.UUID, role string) (string, error) {
	if role != RoleHospital && role != RoleDoctor && role != RolePatient {
		return "", fmt.Errorf("unknown role: %s", role)
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses the token, checks signature and expiry, and returns the
// embedded claims.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ActorID returns the subject as a UUID.
func (c *Claims) ActorID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
