package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filternet/internal/api"
	"filternet/internal/mock"
	"filternet/internal/session"
)

func googleCredential(t *testing.T) string {
	t.Helper()
	claims := googleClaims{
		Email:   "parent@example.com",
		Name:    "Pat Parent",
		Picture: "https://example.com/p.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1234567890",
			Issuer:    "https://accounts.google.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-google"))
	require.NoError(t, err)
	return token
}

func newTestStore() *session.Store {
	return session.NewStore(session.NewMemoryKV(), "test", nil)
}

func TestDecodeCredential(t *testing.T) {
	user, err := DecodeCredential(googleCredential(t))
	require.NoError(t, err)
	assert.Equal(t, "1234567890", user.ID)
	assert.Equal(t, "parent@example.com", user.Email)
	assert.Equal(t, "Pat Parent", user.Name)
	assert.Equal(t, "https://example.com/p.png", user.Picture)

	for _, bad := range []string{"", "abc", "a.b.c"} {
		_, err := DecodeCredential(bad)
		assert.ErrorIs(t, err, ErrInvalidCredential, bad)
	}
}

func TestSignInWithoutBackend(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	auth := NewAuthService(store, mock.New().Facades().Auth, false)
	assert.Equal(t, StateLoggedOut, auth.State(ctx))

	credential := googleCredential(t)
	user, err := auth.SignInWithCredential(ctx, credential)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", user.Email)

	assert.Equal(t, StateLoggedIn, auth.State(ctx))
	assert.Equal(t, credential, store.GetToken(ctx))
	assert.Equal(t, "Pat Parent", store.GetUser(ctx).Name)
}

func TestSignInExchangesWithBackend(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantToken string
		wantErr   bool
	}{
		{
			name: "backend token",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"access_token":"backend-jwt"}`))
			},
			wantToken: "backend-jwt",
		},
		{
			name: "backend rejects",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			ctx := context.Background()
			store := newTestStore()
			facades := api.NewHTTPFacades(api.NewGateway(srv.URL, store))
			auth := NewAuthService(store, facades.Auth, true)

			_, err := auth.SignInWithCredential(ctx, googleCredential(t))
			if tt.wantErr {
				assert.True(t, api.IsStatus(err, http.StatusForbidden))
				assert.Equal(t, StateLoggedOut, auth.State(ctx))
				assert.False(t, store.IsAuthenticated(ctx))
				assert.Nil(t, store.GetUser(ctx))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, store.GetToken(ctx))
		})
	}
}

func TestSignInFallsBackWhenBackendUnreachable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	facades := api.NewHTTPFacades(api.NewGateway("http://127.0.0.1:1", store))
	auth := NewAuthService(store, facades.Auth, true)

	credential := googleCredential(t)
	_, err := auth.SignInWithCredential(ctx, credential)
	require.NoError(t, err)
	assert.Equal(t, credential, store.GetToken(ctx))
}

func TestSignInRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	auth := NewAuthService(store, mock.New().Facades().Auth, false)

	_, err := auth.SignInWithCredential(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Equal(t, StateLoggedOut, auth.State(ctx))
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestDemoLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	auth := NewAuthService(store, mock.New(mock.WithSession(store)).Facades().Auth, false)
	auth.now = func() time.Time { return time.UnixMilli(1700000000123) }

	user, err := auth.DemoLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "demo_user_123", user.ID)
	assert.Equal(t, "demo_token_1700000000123", store.GetToken(ctx))

	got, err := auth.RequireAuthenticated(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", got.Name)

	require.NoError(t, auth.Logout(ctx))
	assert.Equal(t, StateLoggedOut, auth.State(ctx))
	_, err = auth.RequireAuthenticated(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLogoutClearsEvenWhenBackendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.SetToken(ctx, "abc"))
	auth := NewAuthService(store, api.NewHTTPFacades(api.NewGateway(srv.URL, store)).Auth, true)

	err := auth.Logout(ctx)
	var apiErr *api.APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestStateFollowsExternalClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	auth := NewAuthService(store, mock.New().Facades().Auth, false)
	_, err := auth.DemoLogin(ctx)
	require.NoError(t, err)

	// The gateway clears the store on a 401
	require.NoError(t, store.Clear(ctx))
	assert.Equal(t, StateLoggedOut, auth.State(ctx))
}

func TestSignInInProgress(t *testing.T) {
	auth := NewAuthService(newTestStore(), mock.New().Facades().Auth, false)
	require.NoError(t, auth.begin())

	_, err := auth.DemoLogin(context.Background())
	assert.ErrorIs(t, err, ErrSignInInProgress)
	assert.Equal(t, StateAuthenticating, auth.State(context.Background()))
}

func TestCredentialNonce(t *testing.T) {
	claims := googleClaims{Email: "p@example.com", Nonce: "n-123"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	assert.Equal(t, "n-123", CredentialNonce(token))
	assert.Equal(t, "", CredentialNonce(googleCredential(t)))
	assert.Equal(t, "", CredentialNonce("garbage"))
}
