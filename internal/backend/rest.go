package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/models"
)

const (
	profileColumns = "id,username,full_name,avatar_key,points,terms_accepted_at"

	restPrefix = "/rest/v1/"
	authPrefix = "/auth/v1/"
)

// now is a test seam for timestamps written by the client.
var now = time.Now

// RESTClient talks to the backend's PostgREST-style HTTP API.
type RESTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.RWMutex
	accessToken string
}

var _ Backend = (*RESTClient)(nil)

// Option configures a RESTClient.
type Option func(*RESTClient)

// WithHTTPClient replaces the default http.Client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(r *RESTClient) { r.httpClient = c }
}

// WithAccessToken starts the client with an existing session token.
func WithAccessToken(token string) Option {
	return func(r *RESTClient) { r.accessToken = token }
}

// NewRESTClient returns a client for the project at baseURL authenticated
// with the public API key.
func NewRESTClient(baseURL, apiKey string, opts ...Option) (*RESTClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}
	c := &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetAccessToken switches the bearer token used for row-level security.
// An empty token falls back to the anonymous API key.
func (c *RESTClient) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *RESTClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.accessToken != "" {
		return c.accessToken
	}
	return c.apiKey
}

func (c *RESTClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *RESTClient) ProfilesByUsernames(ctx context.Context, usernames []string) ([]models.Profile, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("select", profileColumns)
	q.Set("username", "in.("+quoteList(usernames)+")")

	var out []models.Profile
	if err := c.do(ctx, http.MethodGet, restPrefix+"profiles", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return c.profileWhere(ctx, "username", username)
}

func (c *RESTClient) ProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	return c.profileWhere(ctx, "id", id)
}

func (c *RESTClient) profileWhere(ctx context.Context, column, value string) (*models.Profile, error) {
	q := url.Values{}
	q.Set("select", profileColumns)
	q.Set(column, "eq."+value)
	q.Set("limit", "1")

	var out []models.Profile
	if err := c.do(ctx, http.MethodGet, restPrefix+"profiles", q, nil, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (c *RESTClient) AcceptTerms(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	body := map[string]any{"terms_accepted_at": now().UTC()}
	return c.do(ctx, http.MethodPatch, restPrefix+"profiles", q, body, nil)
}

func (c *RESTClient) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))

	var out []models.Notification
	if err := c.do(ctx, http.MethodGet, restPrefix+"notifications", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RESTClient) MarkNotificationRead(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.do(ctx, http.MethodPatch, restPrefix+"notifications", q, map[string]bool{"is_read": true}, nil)
}

func (c *RESTClient) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("is_read", "eq.false")
	return c.do(ctx, http.MethodPatch, restPrefix+"notifications", q, map[string]bool{"is_read": true}, nil)
}

type signInResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID string `json:"id"`
	} `json:"user"`
}

func (c *RESTClient) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	q := url.Values{}
	q.Set("grant_type", "password")
	body := map[string]string{"email": email, "password": password}

	var resp signInResponse
	if err := c.do(ctx, http.MethodPost, authPrefix+"token", q, body, &resp); err != nil {
		return nil, err
	}
	c.SetAccessToken(resp.AccessToken)
	return &Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken, UserID: resp.User.ID}, nil
}

func (c *RESTClient) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, authPrefix+"recover", nil, map[string]string{"email": email}, nil)
}

func (c *RESTClient) UpdatePassword(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPut, authPrefix+"user", nil, map[string]string{"password": password}, nil)
}

// do performs one request. in is JSON-encoded when non-nil; out is decoded
// from a 2xx body when non-nil.
func (c *RESTClient) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.bearer())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPatch {
		req.Header.Set(common.PreferHeaderName, "return=minimal")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if err := c.mapStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *RESTClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (c *RESTClient) mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %w: %s; body: %s", ErrUnavailable, ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(b)))
	}
}

// quoteList renders values as a PostgREST in-list, double-quoting each one.
func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ",")
}
