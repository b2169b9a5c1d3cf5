package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pageza/foodtrove/internal/types"
)

// Session cookie scopes.
const (
	ScopeDevice  = "device"
	ScopeBrowser = "browser"
)

// DeviceSessionTTL is how long an anonymous visitor keeps their cart.
const DeviceSessionTTL = 365 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session token")

// SessionService signs and validates visitor session tokens.
type SessionService struct {
	secret []byte
	now    func() time.Time
}

func NewSessionService(secret string) *SessionService {
	return &SessionService{secret: []byte(secret), now: time.Now}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a token for sessionID with the given scope and lifetime.
func (s *SessionService) Issue(sessionID, scope string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := types.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: scope,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the signature and expiry of a session token.
func (s *SessionService) Validate(tokenString string) (*types.SessionClaims, error) {
	claims := &types.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidSession
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
