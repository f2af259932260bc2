package auth

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"

	"github.com/himo-im/himo-server/internal/models"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "himo_session"

type Claims struct {
	UserID  int  `json:"user_id"`
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

var node, nodeErr = snowflake.NewNode(1)

// newTokenID generates a unique token ID, falling back to a KSUID if
// the snowflake node could not be initialized.
func newTokenID() string {
	if nodeErr != nil {
		return ksuid.New().String()
	}
	return node.Generate().String()
}

// Sign issues a session token for the user.
func Sign(secret []byte, user *models.User, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse verifies a session token and returns its claims.
func Parse(secret []byte, tokenStr string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
