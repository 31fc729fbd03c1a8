// Package identity adapts the Google Identity Toolkit REST API to the
// ports.IdentityProvider interface. Raw provider error codes are mapped to
// the domain's closed code set here, at the boundary, so nothing above this
// package ever sees an untyped provider string.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
)

const (
	defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"
	defaultTimeout = 15 * time.Second

	endpointSignUp         = "accounts:signUp"
	endpointSignIn         = "accounts:signInWithPassword"
	endpointSignInWithIdp  = "accounts:signInWithIdp"
	googleProviderPostBody = "providerId=google.com"
)

// Config captures the settings for talking to the identity toolkit.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client is an ports.IdentityProvider backed by the identity toolkit REST
// API.
type Client struct {
	http    *http.Client
	apiKey  string
	baseURL string
	log     zerolog.Logger
}

var _ ports.IdentityProvider = (*Client)(nil)

// NewClient returns a Client with defaults applied for base URL and timeout.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		log:     log,
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type idpRequest struct {
	PostBody            string `json:"postBody"`
	RequestURI          string `json:"requestUri"`
	ReturnIdpCredential bool   `json:"returnIdpCredential"`
	ReturnSecureToken   bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAccount registers a new email/password account with the provider.
func (c *Client) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	return c.passwordCall(ctx, endpointSignUp, email, password)
}

// Authenticate verifies an email/password pair with the provider.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	return c.passwordCall(ctx, endpointSignIn, email, password)
}

// FederatedSignIn exchanges the client-relayed popup outcome. A relayed
// error code (popup dismissal included) short-circuits to the mapped domain
// error without a network call; otherwise the ID token is verified by the
// provider.
func (c *Client) FederatedSignIn(ctx context.Context, cred ports.FederatedCredential) (*domain.Identity, error) {
	if cred.ErrorCode != "" {
		return nil, domain.NewProviderError(cred.ErrorCode)
	}

	req := idpRequest{
		PostBody:            "id_token=" + url.QueryEscape(cred.IDToken) + "&" + googleProviderPostBody,
		RequestURI:          "http://localhost",
		ReturnIdpCredential: true,
		ReturnSecureToken:   true,
	}
	resp, err := c.do(ctx, endpointSignInWithIdp, req)
	if err != nil {
		return nil, err
	}

	uid, email := resp.LocalID, resp.Email
	if uid == "" || email == "" {
		// Some IdP responses omit top-level fields; the claims of the
		// returned (or submitted) ID token carry them. Verification already
		// happened provider-side, so an unverified parse is enough here.
		tok := resp.IDToken
		if tok == "" {
			tok = cred.IDToken
		}
		cuid, cemail := claimsFromToken(tok)
		if uid == "" {
			uid = cuid
		}
		if email == "" {
			email = cemail
		}
	}
	if uid == "" {
		return nil, domain.NewProviderError("MISSING_SUBJECT")
	}
	return &domain.Identity{UID: uid, Email: email}, nil
}

func (c *Client) passwordCall(ctx context.Context, endpoint, email, password string) (*domain.Identity, error) {
	resp, err := c.do(ctx, endpoint, passwordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Identity{UID: resp.LocalID, Email: resp.Email}, nil
}

func (c *Client) do(ctx context.Context, endpoint string, payload any) (*accountResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("identity request encode: %w", err)
	}

	u := fmt.Sprintf("%s/%s?key=%s", c.baseURL, endpoint, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("identity request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("identity response read: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.Unmarshal(data, &er); err != nil || er.Error.Message == "" {
			c.log.Warn().Int("status", res.StatusCode).Str("endpoint", endpoint).Msg("unparseable identity provider error")
			return nil, domain.NewProviderError(fmt.Sprintf("HTTP_%d", res.StatusCode))
		}
		return nil, domain.NewProviderError(er.Error.Message)
	}

	var ar accountResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return nil, fmt.Errorf("identity response decode: %w", err)
	}
	return &ar, nil
}

// claimsFromToken extracts subject and email from an ID token without
// signature verification.
func claimsFromToken(raw string) (uid, email string) {
	if raw == "" {
		return "", ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", ""
	}
	uid, _ = claims["sub"].(string)
	email, _ = claims["email"].(string)
	return uid, email
}
