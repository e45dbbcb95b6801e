package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/payshield/payshield-cli/internal/client/models"
)

// Claims is the claim set the backend embeds in its bearer tokens.
type Claims struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// userFromToken derives the identity from the token's embedded claims
// without a network round trip. The signature is deliberately not checked
// here: the server re-validates the token on every protected call, the
// client only needs the claims and a local expiry check. A token without
// an exp claim is treated as expired.
func userFromToken(token string, now time.Time) (*models.User, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(now) {
		return nil, ErrTokenExpired
	}
	return &models.User{ID: claims.UserID, Name: claims.Name, Email: claims.Email}, nil
}
