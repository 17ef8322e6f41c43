// Package identitykit adapts the managed identity provider's account
// REST API to the store.AuthStore contract. The portal holds a single
// client-side session, so the adapter emits session-change events for
// its own sign-in and sign-out calls.
package identitykit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/medico-health/portal-api/internal/store"
)

const defaultEndpoint = "https://identitytoolkit.googleapis.com/v1"

type Config struct {
	APIKey string

	// Endpoint overrides the provider base URL, for tests.
	Endpoint string

	HTTPClient *http.Client
}

type Client struct {
	cfg Config
	hub *store.Hub

	mu      sync.Mutex
	current *store.Identity
	// idTokens holds the provider session token per identity key;
	// sendOobCode requires it.
	idTokens map[string]string
}

func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:      cfg,
		hub:      store.NewHub(),
		idTokens: make(map[string]string),
	}
}

var _ store.AuthStore = (*Client)(nil)

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IDToken     string `json:"idToken"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignInWithCredential(ctx context.Context, email, password string) (store.Identity, error) {
	resp, err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return store.Identity{}, err
	}
	id := c.establish(resp)
	return id, nil
}

func (c *Client) SignInWithSocial(ctx context.Context, providerToken string) (store.Identity, error) {
	resp, err := c.post(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            "id_token=" + url.QueryEscape(providerToken) + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	})
	if err != nil {
		return store.Identity{}, err
	}
	id := c.establish(resp)
	return id, nil
}

func (c *Client) CreateAccount(ctx context.Context, email, password string) (store.Identity, error) {
	resp, err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return store.Identity{}, err
	}

	// Account creation does not establish a session; remember the
	// provider token so the verification mail can still be sent.
	id := store.Identity{Key: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}
	c.mu.Lock()
	c.idTokens[id.Key] = resp.IDToken
	c.mu.Unlock()
	return id, nil
}

func (c *Client) SendVerificationEmail(ctx context.Context, id store.Identity) error {
	c.mu.Lock()
	token, ok := c.idTokens[id.Key]
	c.mu.Unlock()
	if !ok {
		return store.ErrNoSession
	}

	_, err := c.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     token,
	})
	return err
}

func (c *Client) SignOut(_ context.Context) error {
	c.mu.Lock()
	wasActive := c.current != nil
	c.current = nil
	c.mu.Unlock()

	if wasActive {
		c.hub.Emit(nil)
	}
	return nil
}

func (c *Client) OnSessionChanged(fn func(*store.Identity)) func() {
	return c.hub.Subscribe(fn)
}

func (c *Client) establish(resp *accountResponse) store.Identity {
	id := store.Identity{Key: resp.LocalID, Email: resp.Email, DisplayName: resp.DisplayName}
	c.mu.Lock()
	c.current = &id
	c.idTokens[id.Key] = resp.IDToken
	c.mu.Unlock()

	c.hub.Emit(&id)
	return id
}

func (c *Client) post(ctx context.Context, action string, body map[string]any) (*accountResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", action, err)
	}

	endpoint := c.cfg.Endpoint + "/" + action + "?key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", store.ErrNetworkFailure, action, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			return nil, mapProviderError(errResp.Error.Message)
		}
		return nil, fmt.Errorf("%s failed with status %d", action, resp.StatusCode)
	}

	var out accountResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", action, err)
	}
	return &out, nil
}

// mapProviderError translates the provider's error codes into the
// store's sentinels. Unknown codes pass through verbatim so the
// caller can surface the raw message.
func mapProviderError(code string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return store.ErrEmailTaken
	case strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "INVALID_IDP_RESPONSE"),
		strings.HasPrefix(code, "USER_DISABLED"):
		return store.ErrInvalidCredentials
	case strings.HasPrefix(code, "OPERATION_NOT_ALLOWED"):
		return store.ErrOperationNotAllowed
	case strings.HasPrefix(code, "UNAUTHORIZED_DOMAIN"):
		return store.ErrUnauthorizedDomain
	default:
		return fmt.Errorf("identity provider error: %s", code)
	}
}
