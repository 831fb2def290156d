package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"filternet/internal/api"
	"filternet/internal/models"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid Google credential")
	ErrSignInInProgress  = errors.New("sign-in already in progress")
)

// AuthState is where a session is in the sign-in flow
type AuthState int

const (
	StateLoggedOut AuthState = iota
	StateAuthenticating
	StateLoggedIn
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "logged_out"
	}
}

// TokenStore is the persisted session the auth service signs in and out of
type TokenStore interface {
	GetToken(ctx context.Context) string
	SetToken(ctx context.Context, token string) error
	GetUser(ctx context.Context) *models.User
	SetUser(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// DemoUser is the account used by demo sign-in
var DemoUser = models.User{
	ID:    "demo_user_123",
	Email: "demo@filternet.com",
	Name:  "Demo User",
}

// AuthService handles sign-in and sign-out for one session
type AuthService struct {
	store    TokenStore
	auth     api.AuthAPI
	exchange bool
	now      func() time.Time

	mu    sync.Mutex
	state AuthState
}

// NewAuthService creates an auth service. When exchange is set, Google
// credentials are traded for a backend token; otherwise the credential itself
// is the bearer token.
func NewAuthService(store TokenStore, auth api.AuthAPI, exchange bool) *AuthService {
	return &AuthService{
		store:    store,
		auth:     auth,
		exchange: exchange,
		now:      time.Now,
	}
}

// State reports the current state. A session cleared behind the service's
// back, for example after the backend answered 401, reads as logged out.
func (s *AuthService) State(ctx context.Context) AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticating {
		return s.state
	}
	if s.store.IsAuthenticated(ctx) {
		s.state = StateLoggedIn
	} else {
		s.state = StateLoggedOut
	}
	return s.state
}

func (s *AuthService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAuthenticating {
		return ErrSignInInProgress
	}
	s.state = StateAuthenticating
	return nil
}

func (s *AuthService) finish(state AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// SignInWithCredential signs in with a Google ID token. The token is decoded
// locally without verifying its signature; verification is the backend's
// job when one is configured.
func (s *AuthService) SignInWithCredential(ctx context.Context, credential string) (*models.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	user, err := DecodeCredential(credential)
	if err != nil {
		s.finish(StateLoggedOut)
		return nil, err
	}
	if err := s.store.SetUser(ctx, user); err != nil {
		s.finish(StateLoggedOut)
		return nil, fmt.Errorf("failed to store user: %w", err)
	}

	token := credential
	if s.exchange {
		exchanged, err := s.auth.ExchangeGoogleCredential(ctx, credential)
		var transportErr *api.TransportError
		switch {
		case err == nil:
			token = exchanged
		case errors.As(err, &transportErr):
			log.Printf("Backend authentication unreachable, using Google credential: %v", err)
		default:
			s.abort(ctx)
			return nil, fmt.Errorf("backend authentication failed: %w", err)
		}
	} else {
		log.Println("No backend configured, using Google credential as token")
	}

	if err := s.store.SetToken(ctx, token); err != nil {
		s.abort(ctx)
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	s.finish(StateLoggedIn)
	log.Printf("Signed in: %s", user.Email)
	return user, nil
}

// DemoLogin signs in as DemoUser with a locally minted token
func (s *AuthService) DemoLogin(ctx context.Context) (*models.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	user := DemoUser
	if err := s.store.SetUser(ctx, &user); err != nil {
		s.finish(StateLoggedOut)
		return nil, fmt.Errorf("failed to store user: %w", err)
	}
	token := fmt.Sprintf("demo_token_%d", s.now().UnixMilli())
	if err := s.store.SetToken(ctx, token); err != nil {
		s.abort(ctx)
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	s.finish(StateLoggedIn)
	log.Println("Demo mode login")
	return &user, nil
}

// Logout ends the session with the backend and clears it locally. The local
// session is cleared even when the backend call fails; that error is
// returned for logging.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	if clearErr := s.store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
		log.Printf("Failed to clear session: %v", clearErr)
		if err == nil {
			err = clearErr
		}
	}
	s.finish(StateLoggedOut)
	return err
}

// RequireAuthenticated returns the signed-in user, or ErrNotAuthenticated
// when there is no session token
func (s *AuthService) RequireAuthenticated(ctx context.Context) (*models.User, error) {
	if !s.store.IsAuthenticated(ctx) {
		return nil, ErrNotAuthenticated
	}
	user := s.store.GetUser(ctx)
	if user == nil {
		user = &models.User{}
	}
	return user, nil
}

func (s *AuthService) abort(ctx context.Context) {
	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	s.finish(StateLoggedOut)
}

type googleClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Nonce   string `json:"nonce,omitempty"`
	jwt.RegisteredClaims
}

// DecodeCredential reads the user from a Google ID token payload without
// checking the signature
func DecodeCredential(credential string) (*models.User, error) {
	claims := &googleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if claims.Subject == "" && claims.Email == "" {
		return nil, ErrInvalidCredential
	}
	return &models.User{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// CredentialNonce returns the nonce a Google ID token was issued for, or ""
// when the token has none or cannot be read
func CredentialNonce(credential string) string {
	claims := &googleClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return ""
	}
	return claims.Nonce
}
