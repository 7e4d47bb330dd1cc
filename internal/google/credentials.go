package google

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// RevokeURI is the Google token revocation endpoint.
	RevokeURI = "https://oauth2.googleapis.com/revoke"

	// TokenInfoURI is the Google token info endpoint.
	TokenInfoURI = "https://oauth2.googleapis.com/tokeninfo"

	tokenExpiryLayout = "2006-01-02T15:04:05Z"
	credentialsClass  = "OAuth2Credentials"
	credentialsModule = "oauth2client.client"
)

// Credentials is the on-disk representation of an authorized user.
type Credentials struct {
	AccessToken   string         `json:"access_token"`
	ClientID      string         `json:"client_id"`
	ClientSecret  string         `json:"client_secret"`
	RefreshToken  string         `json:"refresh_token"`
	TokenExpiry   string         `json:"token_expiry"`
	TokenURI      string         `json:"token_uri"`
	UserAgent     *string        `json:"user_agent"`
	RevokeURI     string         `json:"revoke_uri"`
	IDToken       any            `json:"id_token"`
	TokenResponse map[string]any `json:"token_response"`
	Scopes        []string       `json:"scopes"`
	TokenInfoURI  string         `json:"token_info_uri"`
	Invalid       bool           `json:"invalid"`
	Class         string         `json:"_class"`
	Module        string         `json:"_module"`
}

// NewCredentials builds credentials for the client in conf holding tok.
func NewCredentials(conf *oauth2.Config, tok *oauth2.Token) *Credentials {
	tokenURI := conf.Endpoint.TokenURL
	if tokenURI == "" {
		tokenURI = google.Endpoint.TokenURL
	}

	c := &Credentials{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		TokenURI:     tokenURI,
		RevokeURI:    RevokeURI,
		TokenInfoURI: TokenInfoURI,
		Scopes:       append([]string(nil), conf.Scopes...),
		Class:        credentialsClass,
		Module:       credentialsModule,
	}
	c.Update(tok)
	return c
}

// Update stores a freshly issued token. An empty refresh token in tok keeps
// the previous one, as Google only returns it on the first authorization.
func (c *Credentials) Update(tok *oauth2.Token) {
	c.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}

	c.TokenExpiry = ""
	if !tok.Expiry.IsZero() {
		c.TokenExpiry = tok.Expiry.UTC().Format(tokenExpiryLayout)
	}

	resp := map[string]any{
		"access_token": tok.AccessToken,
		"token_type":   tok.Type(),
	}
	if !tok.Expiry.IsZero() {
		resp["expires_in"] = int64(time.Until(tok.Expiry).Seconds())
	}
	if tok.RefreshToken != "" {
		resp["refresh_token"] = tok.RefreshToken
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		resp["scope"] = scope
	}
	c.TokenResponse = resp
	c.Invalid = false
}

// Token returns the stored token. A missing or unreadable expiry is treated
// as already expired so the token gets refreshed before use.
func (c *Credentials) Token() *oauth2.Token {
	expiry := time.Unix(1, 0)
	if t, err := time.Parse(tokenExpiryLayout, c.TokenExpiry); err == nil {
		expiry = t
	}
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: c.RefreshToken,
		Expiry:       expiry,
	}
}

// Config returns an OAuth2 config able to refresh these credentials.
func (c *Credentials) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  google.Endpoint.AuthURL,
			TokenURL: c.TokenURI,
		},
		Scopes: c.Scopes,
	}
}

// Storage keeps credentials in a single file.
type Storage struct {
	path string
}

// NewStorage returns a Storage backed by the file at path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the backing file path.
func (s *Storage) Path() string {
	return s.path
}

// Get reads the stored credentials. A missing or empty file yields nil
// credentials and no error.
func (s *Storage) Get() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", s.path, err)
	}
	return &creds, nil
}

// Put writes creds to the backing file, replacing its content.
func (s *Storage) Put(creds *Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.path, err)
	}
	return nil
}
