// Package client implements the session-holding API client. It moves
// between three states — anonymous, authenticating, authenticated — and is
// the only component that persists the session token. The token is treated
// as opaque: it is attached as a bearer credential and never inspected.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mezunhub/alumni-core/internal/user/entity"
)

// State is the session lifecycle position.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ErrSessionExpired is returned when the service rejects the held token;
// the client has already cleared its state when this surfaces.
var ErrSessionExpired = errors.New("session expired")

// ErrNotAuthenticated is returned when an authenticated call is attempted
// from the anonymous state.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError carries a structured error payload returned by the service. The
// message is the service's stable vocabulary, surfaced verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the alumni API and owns the current session.
type Client struct {
	base  string
	http  *http.Client
	store *SessionStore

	mu      sync.Mutex
	state   State
	session *Session
}

// New constructs a Client pointed at baseURL. The store may be nil, in
// which case sessions live only in memory.
func New(baseURL string, store *SessionStore) *Client {
	return &Client{
		base:  baseURL,
		http:  &http.Client{Timeout: 15 * time.Second},
		store: store,
		state: StateAnonymous,
	}
}

// Load restores a persisted session, moving directly to authenticated.
// Token validity is not checked here; the first authenticated request
// surfaces an expired token and resets the state.
func (c *Client) Load() error {
	if c.store == nil {
		return nil
	}
	sess, err := c.store.Load()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if sess != nil {
		c.session = sess
		c.state = StateAuthenticated
	}
	return nil
}

// State returns the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentUser returns the cached user view when authenticated.
func (c *Client) CurrentUser() (*entity.AuthView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated || c.session == nil {
		return nil, false
	}
	u := c.session.User
	return &u, true
}

type authResponse struct {
	Message string          `json:"message"`
	User    entity.AuthView `json:"user"`
	Token   string          `json:"token"`
}

// Register submits a registration and, on success, persists the session
// and moves to authenticated. On failure the state reverts to anonymous
// and nothing is persisted.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (*entity.AuthView, error) {
	body := map[string]string{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"password":   password,
	}
	return c.authenticate(ctx, "/api/auth/register", body)
}

// Login submits credentials; state transitions mirror Register.
func (c *Client) Login(ctx context.Context, email, password string) (*entity.AuthView, error) {
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, "/api/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (*entity.AuthView, error) {
	c.mu.Lock()
	c.state = StateAuthenticating
	c.mu.Unlock()

	var out authResponse
	err := c.do(ctx, http.MethodPost, path, body, "", &out)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateAnonymous
		c.session = nil
		return nil, err
	}
	sess := &Session{User: out.User, Token: out.Token}
	c.session = sess
	c.state = StateAuthenticated
	if c.store != nil {
		if err := c.store.Save(sess); err != nil {
			return nil, err
		}
	}
	u := out.User
	return &u, nil
}

// Logout clears the session in memory and on disk.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.session = nil
	c.state = StateAnonymous
	c.mu.Unlock()
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*entity.Profile, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	var out entity.Profile
	if err := c.doAuthed(ctx, http.MethodGet, "/api/users/profile", nil, tok, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type updateResponse struct {
	Message string         `json:"message"`
	User    entity.Profile `json:"user"`
}

// UpdateProfile applies a partial profile update; absent fields are left
// unchanged by the service.
func (c *Client) UpdateProfile(ctx context.Context, patch entity.ProfilePatch) (*entity.Profile, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}
	var out updateResponse
	if err := c.doAuthed(ctx, http.MethodPatch, "/api/users/profile", patch, tok, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// PublicProfile fetches the public subset for any user id; no session
// needed.
func (c *Client) PublicProfile(ctx context.Context, id string) (*entity.PublicProfile, error) {
	var out entity.PublicProfile
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) token() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated || c.session == nil {
		return "", ErrNotAuthenticated
	}
	return c.session.Token, nil
}

// doAuthed runs an authenticated request. A 401 response invalidates the
// session: persisted state is cleared and the client drops to anonymous.
func (c *Client) doAuthed(ctx context.Context, method, path string, body any, tok string, out any) error {
	err := c.do(ctx, method, path, body, tok, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		c.mu.Lock()
		c.session = nil
		c.state = StateAnonymous
		c.mu.Unlock()
		if c.store != nil {
			_ = c.store.Clear()
		}
		return ErrSessionExpired
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, tok string, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
