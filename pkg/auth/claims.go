package auth

import (
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   string
	Email    string
	FullName string
	Role     enums.Role
}

// AccessTokenClaims represents the typed JWT issued to clients.
// The subject carries the user id so claims survive a round trip through
// any consumer that only understands registered claims.
type AccessTokenClaims struct {
	UserID   string     `json:"user_id"`
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
