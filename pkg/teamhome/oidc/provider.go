// Package oidc signs users in through Auth0 using the OpenID Connect
// authorization code flow and hands them a local session token.
package oidc

import (
	"context"
	"errors"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Identity is what we take from a verified ID token
type Identity struct {
	Subject       string `json:"sub"`
	Nonce         string `json:"nonce"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Authenticator runs the provider side of the code flow
type Authenticator interface {
	AuthCodeURL(state, nonce string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// Auth0 is an Authenticator backed by an Auth0 tenant
type Auth0 struct {
	config   oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// Auth0Config configures the Auth0 tenant
type Auth0Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewAuth0 discovers the tenant's endpoints and keys
func NewAuth0(ctx context.Context, cfg Auth0Config) (*Auth0, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return &Auth0{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// AuthCodeURL returns the tenant's login URL
func (a *Auth0) AuthCodeURL(state, nonce string) string {
	return a.config.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Exchange trades an authorization code for a verified identity
func (a *Auth0) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token in token response")
	}

	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var identity Identity
	if err := idToken.Claims(&identity); err != nil {
		return nil, err
	}
	identity.Subject = idToken.Subject
	identity.Nonce = idToken.Nonce
	return &identity, nil
}
