package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/storage"
	"github.com/pageza/foodtrove/internal/types"
)

const (
	LoginExpiresInMins = 30
	LoginFailedMessage = "Login failed. Check your credentials."
	RegisterFailed     = "Registration failed. Please try again."
)

// Auth scopes record where a login was kept: "local" survives the browser
// closing, "session" only lives as long as the browser-scoped cookie.
const (
	AuthScopeLocal   = "local"
	AuthScopeSession = "session"
)

// StoredUser is the user blob kept next to the token.
type StoredUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
}

// DisplayName prefers the first name.
func (u *StoredUser) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// AuthService logs visitors in against the demo API and keeps the returned
// token and user in their device storage.
type AuthService struct {
	api   AuthAPI
	store JSONStorage
	now   func() time.Time
}

func NewAuthService(api AuthAPI, store JSONStorage) *AuthService {
	return &AuthService{api: api, store: store, now: time.Now}
}

// Login authenticates and stores the token and user. remember selects the
// local scope; otherwise the login ends with the browser session.
func (s *AuthService) Login(ctx context.Context, sessionID, username, password string, remember bool) (*StoredUser, error) {
	resp, err := s.api.Login(ctx, client.LoginRequest{
		Username:      strings.TrimSpace(username),
		Password:      password,
		ExpiresInMins: LoginExpiresInMins,
	})
	if err != nil {
		log.Printf("Login failed for %q: %v", username, err)
		return nil, newFetchError("login", err, LoginFailedMessage)
	}

	token := resp.BearerToken()
	if token == "" {
		return nil, &FetchError{Resource: "login", Message: LoginFailedMessage, Err: errors.New("login response carried no token")}
	}

	user := &StoredUser{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Image:     resp.Image,
	}

	scope := AuthScopeSession
	if remember {
		scope = AuthScopeLocal
	}
	if err := s.store.Set(ctx, sessionID, storage.KeyToken, token); err != nil {
		return nil, err
	}
	if err := s.store.SetJSON(ctx, sessionID, storage.KeyUser, user); err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, sessionID, storage.KeyAuthScope, scope); err != nil {
		return nil, err
	}

	log.Printf("Successfully logged in user %d", user.ID)
	return user, nil
}

// Logout removes the token and user.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	for _, key := range []string{storage.KeyToken, storage.KeyUser, storage.KeyAuthScope} {
		if err := s.store.Delete(ctx, sessionID, key); err != nil {
			return err
		}
	}
	return nil
}

// CurrentUser returns the logged-in user, or nil. browserAlive reports whether
// the browser-scoped cookie is present; a session-scoped login without it, or
// a login whose upstream token has expired, is logged out.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string, browserAlive bool) (*StoredUser, error) {
	token, err := s.store.Get(ctx, sessionID, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	scope, err := s.store.Get(ctx, sessionID, storage.KeyAuthScope)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	if (scope == AuthScopeSession && !browserAlive) || s.tokenExpired(token) {
		return nil, s.Logout(ctx, sessionID)
	}

	var user StoredUser
	found, err := s.store.GetJSON(ctx, sessionID, storage.KeyUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// Token returns the stored bearer token, if any.
func (s *AuthService) Token(ctx context.Context, sessionID string) (string, bool) {
	token, err := s.store.Get(ctx, sessionID, storage.KeyToken)
	if err != nil {
		return "", false
	}
	return token, true
}

// TokenClaims decodes the upstream access token without verifying it; the
// storefront does not hold the demo API's signing key.
func TokenClaims(token string) (*types.UpstreamClaims, error) {
	claims := &types.UpstreamClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) tokenExpired(token string) bool {
	claims, err := TokenClaims(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(s.now())
}

// Register submits a new user to the simulated registration endpoint.
func (s *AuthService) Register(ctx context.Context, form types.RegisterForm) (*client.User, error) {
	user, err := s.api.AddUser(ctx, client.NewUser{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Phone:     strings.TrimSpace(form.Phone),
		Address: client.Address{
			Address:    strings.TrimSpace(form.Address),
			City:       strings.TrimSpace(form.City),
			State:      strings.TrimSpace(form.Region),
			PostalCode: strings.TrimSpace(form.PostCode),
			Country:    strings.TrimSpace(form.Country),
		},
	})
	if err != nil {
		return nil, newFetchError("register", err, RegisterFailed)
	}
	log.Printf("Successfully registered user %d", user.ID)
	return user, nil
}
