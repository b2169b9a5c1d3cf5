package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are carried by the signed visitor session cookie. The
// registered ID claim holds the session id.
type SessionClaims struct {
	jwt.RegisteredClaims
	// Scope is "device" for the long-lived session cookie and "browser" for
	// the cookie that keeps a non-remembered login alive.
	Scope string `json:"scope"`
}

// UpstreamClaims are the claims read from the demo API's access token.
type UpstreamClaims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
