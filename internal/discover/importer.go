// Package discover runs the "discover more" import: it asks the onboarding
// service to pull listings for a location into the user's feed.
//
// Imports are expensive on the server side, so the client allows at most one
// at a time and, after a successful import, answers repeated requests from
// the cached result until the cooldown has passed. The last request and
// result are persisted in the metadata store so a restart does not reset
// the cooldown.
package discover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/metrics"
	"github.com/housersapp/housers/internal/repositories/metadata"
)

// DefaultCooldown is the minimum time between two imports for a user.
const DefaultCooldown = 10 * time.Minute

// ErrImportInFlight is returned when another import has not finished yet.
var ErrImportInFlight = errors.New("import already in progress")

// ErrCoolingDown is matched by a CooldownError.
var ErrCoolingDown = errors.New("import cooling down")

// CooldownError refuses a new import until Until.
type CooldownError struct {
	Until time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s until %s", ErrCoolingDown, e.Until.Format(time.RFC3339))
}

func (e *CooldownError) Unwrap() error { return ErrCoolingDown }

// Request is the payload posted to the onboarding endpoint.
type Request struct {
	Location          string `json:"location"`
	UserType          string `json:"userType"`
	UserID            string `json:"userId"`
	FetchDescriptions bool   `json:"fetchDescriptions"`
}

// Result of an import. Throttled marks a cached result returned without
// contacting the server.
type Result struct {
	Posted    int       `json:"posted"`
	Location  string    `json:"location"`
	UserType  string    `json:"userType"`
	At        time.Time `json:"at"`
	Throttled bool      `json:"-"`
}

// answers reports whether r was produced by an equivalent request.
func (r *Result) answers(req Request) bool {
	return strings.EqualFold(r.Location, req.Location) && strings.EqualFold(r.UserType, req.UserType)
}

// State is what the importer remembers per user.
type State struct {
	LastLocation string  `json:"lastLocation"`
	LastUserType string  `json:"lastUserType"`
	LastResult   *Result `json:"lastResult,omitempty"`
}

type Importer struct {
	endpoint   string
	apiKey     string
	token      func() string
	httpClient *http.Client
	meta       metadata.Repository
	cooldown   time.Duration
	now        func() time.Time
	log        logging.Logger
	metrics    *metrics.Metrics

	mu      sync.Mutex
	running bool
	states  map[string]*State
}

type Option func(*Importer)

func WithHTTPClient(c *http.Client) Option { return func(i *Importer) { i.httpClient = c } }

// WithToken supplies the session's bearer token per request.
func WithToken(fn func() string) Option { return func(i *Importer) { i.token = fn } }

// WithMetadata persists state across restarts.
func WithMetadata(r metadata.Repository) Option { return func(i *Importer) { i.meta = r } }

func WithCooldown(d time.Duration) Option { return func(i *Importer) { i.cooldown = d } }

func WithClock(now func() time.Time) Option { return func(i *Importer) { i.now = now } }

func WithMetrics(m *metrics.Metrics) Option { return func(i *Importer) { i.metrics = m } }

func NewImporter(endpoint, apiKey string, log logging.Logger, opts ...Option) *Importer {
	i := &Importer{
		endpoint:   endpoint,
		apiKey:     apiKey,
		token:      func() string { return "" },
		httpClient: &http.Client{Timeout: 60 * time.Second},
		cooldown:   DefaultCooldown,
		now:        time.Now,
		log:        log,
		states:     make(map[string]*State),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func validate(req Request) error {
	if strings.TrimSpace(req.Location) == "" {
		return common.Invalid("location", "must not be empty")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return common.Invalid("userId", "must not be empty")
	}
	return nil
}

// Run imports listings for req, or returns the cached result while the
// cooldown is active.
func (i *Importer) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	req.Location = strings.TrimSpace(req.Location)
	req.UserType = strings.TrimSpace(req.UserType)

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		i.metrics.DiscoverImport(metrics.ResultBusy)
		return nil, ErrImportInFlight
	}
	i.running = true
	i.mu.Unlock()
	defer func() {
		i.mu.Lock()
		i.running = false
		i.mu.Unlock()
	}()

	st := i.state(ctx, req.UserID)
	i.mu.Lock()
	last := st.LastResult
	i.mu.Unlock()
	if last != nil && i.now().Sub(last.At) < i.cooldown {
		i.metrics.DiscoverImport(metrics.ResultThrottled)
		if !last.answers(req) {
			return nil, &CooldownError{Until: last.At.Add(i.cooldown)}
		}
		cached := *last
		cached.Throttled = true
		return &cached, nil
	}

	posted, err := i.post(ctx, req)
	if err != nil {
		i.metrics.DiscoverImport(metrics.ResultError)
		i.log.Warn(ctx, "discover import failed", "location", req.Location, "error", err)
		return nil, err
	}
	i.metrics.DiscoverImport(metrics.ResultOK)

	res := &Result{Posted: posted, Location: req.Location, UserType: req.UserType, At: i.now()}
	i.mu.Lock()
	st.LastLocation = req.Location
	st.LastUserType = req.UserType
	st.LastResult = res
	saved := *st
	i.mu.Unlock()
	i.persist(ctx, req.UserID, saved)

	out := *res
	return &out, nil
}

// State returns the remembered state for userID.
func (i *Importer) State(ctx context.Context, userID string) State {
	st := i.state(ctx, userID)
	i.mu.Lock()
	defer i.mu.Unlock()
	return *st
}

// Reset forgets the in-memory state of every user, e.g. on sign-out.
// Persisted state is kept.
func (i *Importer) Reset() {
	i.mu.Lock()
	i.states = make(map[string]*State)
	i.mu.Unlock()
}

func metaKey(userID string) string { return "discover:" + userID }

func (i *Importer) state(ctx context.Context, userID string) *State {
	i.mu.Lock()
	st, ok := i.states[userID]
	i.mu.Unlock()
	if ok {
		return st
	}

	st = &State{}
	if i.meta != nil {
		raw, err := i.meta.Get(ctx, metaKey(userID))
		if err != nil {
			i.log.Warn(ctx, "discover state load failed", "error", err)
		} else if raw != nil {
			if err := json.Unmarshal(raw, st); err != nil {
				i.log.Warn(ctx, "discover state corrupt, ignoring", "error", err)
				st = &State{}
			}
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if existing, ok := i.states[userID]; ok {
		return existing
	}
	i.states[userID] = st
	return st
}

func (i *Importer) persist(ctx context.Context, userID string, st State) {
	if i.meta == nil {
		return
	}
	raw, err := json.Marshal(st)
	if err == nil {
		err = i.meta.Set(ctx, metaKey(userID), raw)
	}
	if err != nil {
		i.log.Warn(ctx, "discover state save failed", "error", err)
	}
}

type response struct {
	Posted int `json:"posted"`
}

func (i *Importer) post(ctx context.Context, req Request) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("encode import request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build import request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if i.apiKey != "" {
		httpReq.Header.Set(common.APIKeyHeaderName, i.apiKey)
	}
	if tok := i.token(); tok != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
	}

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("%w: import returned %s: %s", common.ErrNetwork, resp.Status, strings.TrimSpace(string(b)))
	}
	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("%w: decode import response: %v", common.ErrNetwork, err)
	}
	return out.Posted, nil
}
