package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/logging"
	"github.com/housersapp/housers/internal/repositories/metadata"
)

const lastUserKey = "session:last_user_id"

// Service is the sign-in state of the client.
//
// Contract:
//   - SignIn: authenticate, remember the tokens and return the user id.
//   - Restore: pick up the tokens stored by a previous run.
//   - SignOut: forget the tokens locally.
//   - CurrentUserID / AccessToken: the active session, if any.
//   - LastUserID: the last user who signed in on this device, even if the
//     session has since expired.
type Service interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	Restore(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
	CurrentUserID() (string, error)
	AccessToken() string
	LastUserID(ctx context.Context) string
}

// TokenSink receives the access token whenever it changes, e.g. the REST
// client's bearer.
type TokenSink interface {
	SetAccessToken(token string)
}

type service struct {
	auth   backend.Authenticator
	store  TokenStore
	meta   metadata.Repository
	sink   TokenSink
	secret []byte
	log    logging.Logger

	mu     sync.RWMutex
	tokens *backend.Tokens
	userID string
}

// NewService wires the auth collaborator with token storage. meta and sink
// may be nil.
func NewService(auth backend.Authenticator, store TokenStore, meta metadata.Repository, sink TokenSink, secret []byte, log logging.Logger) Service {
	return &service{auth: auth, store: store, meta: meta, sink: sink, secret: secret, log: log}
}

func (s *service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", common.Invalid("email", "must not be empty")
	}
	if password == "" {
		return "", common.Invalid("password", "must not be empty")
	}

	tokens, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	userID, err := UserIDFromToken(tokens.AccessToken, s.secret)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	if tokens.UserID != "" && !strings.EqualFold(tokens.UserID, userID) {
		return "", fmt.Errorf("sign in: %w: token subject does not match user", common.ErrUnauthorized)
	}
	tokens.UserID = userID

	if err := s.store.Save(*tokens); err != nil {
		// the session still works for this run
		s.log.Warn(ctx, "saving session failed", "error", err)
	}
	if s.meta != nil {
		if err := s.meta.Set(ctx, lastUserKey, []byte(userID)); err != nil {
			s.log.Warn(ctx, "saving last user failed", "error", err)
		}
	}
	s.activate(tokens)
	s.log.Info(ctx, "signed in", "user_id", userID)
	return userID, nil
}

func (s *service) Restore(ctx context.Context) (string, error) {
	tokens, err := s.store.Load()
	if err != nil {
		return "", err
	}
	userID, err := UserIDFromToken(tokens.AccessToken, s.secret)
	if err != nil {
		if errors.Is(err, common.ErrSessionExpired) {
			s.log.Info(ctx, "stored session expired")
			_ = s.store.Clear()
		}
		return "", err
	}
	tokens.UserID = userID
	s.activate(tokens)
	return userID, nil
}

func (s *service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.tokens = nil
	s.userID = ""
	s.mu.Unlock()
	if s.sink != nil {
		s.sink.SetAccessToken("")
	}
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.log.Info(ctx, "signed out")
	return nil
}

func (s *service) CurrentUserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", common.ErrNoSession
	}
	return s.userID, nil
}

func (s *service) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tokens == nil {
		return ""
	}
	return s.tokens.AccessToken
}

func (s *service) LastUserID(ctx context.Context) string {
	if id, err := s.CurrentUserID(); err == nil {
		return id
	}
	if s.meta == nil {
		return ""
	}
	v, err := s.meta.Get(ctx, lastUserKey)
	if err != nil {
		s.log.Warn(ctx, "reading last user failed", "error", err)
		return ""
	}
	return string(v)
}

func (s *service) activate(t *backend.Tokens) {
	s.mu.Lock()
	s.tokens = t
	s.userID = t.UserID
	s.mu.Unlock()
	if s.sink != nil {
		s.sink.SetAccessToken(t.AccessToken)
	}
}
