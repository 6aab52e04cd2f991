package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

type MicrosoftConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Tenant       string
	// AuthURL y TokenURL sobreescriben el endpoint de Azure AD (tests, nubes soberanas).
	AuthURL  string
	TokenURL string
	Timeout  time.Duration
}

// MicrosoftProvider implementa IdentityProvider sobre el endpoint v2 de Azure AD.
type MicrosoftProvider struct {
	oauth   *oauth2.Config
	timeout time.Duration
	client  *http.Client
}

func NewMicrosoftProvider(cfg MicrosoftConfig, client *http.Client) *MicrosoftProvider {
	tenant := strings.TrimSpace(cfg.Tenant)
	if tenant == "" {
		tenant = "common"
	}
	endpoint := microsoft.AzureADEndpoint(tenant)
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MicrosoftProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		timeout: timeout,
		client:  client,
	}
}

func (p *MicrosoftProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// Exchange hace un único intento; cualquier fallo de red, status o parseo se
// reporta como ErrTokenExchangeFailed.
func (p *MicrosoftProvider) Exchange(ctx context.Context, code string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if p.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	}

	tok, err := p.oauth.Exchange(ctx, code)
	// oauth2 rechaza una respuesta sin access_token antes de que se mire el
	// id_token: ese caso sale como ErrTokenExchangeFailed, no ErrMissingIDToken.
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenExchangeFailed, err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrMissingIDToken
	}
	return idToken, nil
}
