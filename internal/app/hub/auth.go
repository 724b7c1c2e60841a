package hub

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sizzling-burgers/tracking-hub/internal/ports"
)

// Verifier checks HS256-signed credentials issued by the external identity
// service and extracts the subject, role, and contact identity. It has no
// side effects and trusts the decoded role without re-checking a user store.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier around the shared signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify implements ports.CredentialVerifier.
func (v *Verifier) Verify(raw string) (ports.Identity, error) {
	if raw == "" {
		return ports.Identity{}, ErrMissingToken
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return ports.Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ports.Identity{}, ErrInvalidToken
	}

	id := ports.Identity{
		UserID: claimString(claims, "id"),
		Role:   claimString(claims, "role"),
		Email:  claimString(claims, "email"),
	}
	if id.UserID == "" || id.Role == "" {
		return ports.Identity{}, ErrInvalidToken
	}
	return id, nil
}

// claimString reads a claim that external issuers encode as either a string
// or a JSON number.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
