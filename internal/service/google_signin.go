package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ErrNoIDToken is returned when Google's token response has no ID token
var ErrNoIDToken = errors.New("no id_token in Google response")

// GoogleSignIn runs the Google authorization code flow and hands back the ID
// token, the same credential the sign-in button posts
type GoogleSignIn struct {
	config *oauth2.Config
}

// NewGoogleSignIn returns nil when no client secret is configured; the
// redirect flow needs one, the sign-in button does not
func NewGoogleSignIn(clientID, clientSecret string) *GoogleSignIn {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GoogleSignIn{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// AuthCodeURL returns the Google consent page address
func (g *GoogleSignIn) AuthCodeURL(redirectURL, state, nonce string) string {
	config := *g.config
	config.RedirectURL = redirectURL
	return config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades an authorization code for the user's ID token
func (g *GoogleSignIn) Exchange(ctx context.Context, redirectURL, code string) (string, error) {
	config := *g.config
	config.RedirectURL = redirectURL
	token, err := config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange OAuth code: %w", err)
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}
