package backend

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/housersapp/housers/internal/models"
)

// MemorySigningKey signs the HS256 access tokens issued by Memory.
var MemorySigningKey = []byte("housers-memory-backend")

// MemoryTokenTTL is the lifetime of tokens issued by Memory.
const MemoryTokenTTL = time.Hour

type account struct {
	userID   string
	password string
}

// Memory is an in-process Backend. It is safe for concurrent use.
type Memory struct {
	mu            sync.Mutex
	profiles      map[string]models.Profile // by id
	notifications []models.Notification
	accounts      map[string]account // by lower-cased email
	current       string

	// Err, when set, is returned by every call. Tests use it to simulate an
	// unreachable backend.
	Err error
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]models.Profile),
		accounts: make(map[string]account),
	}
}

// AddProfile stores p, assigning a fresh id when p.ID is empty.
func (m *Memory) AddProfile(p models.Profile) models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.profiles[p.ID] = p
	return p
}

// AddAccount registers email/password credentials for userID.
func (m *Memory) AddAccount(email, password, userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[strings.ToLower(email)] = account{userID: userID, password: password}
}

// AddNotification stores n, assigning a fresh id when n.ID is empty.
func (m *Memory) AddNotification(n models.Notification) models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	m.notifications = append(m.notifications, n)
	return n
}

func (m *Memory) ProfilesByUsernames(_ context.Context, usernames []string) ([]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Profile
	for _, p := range m.profiles {
		if slices.Contains(usernames, p.Username) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Memory) ProfileByUsername(_ context.Context, username string) (*models.Profile, error) {
	return m.findProfile(func(p models.Profile) bool { return p.Username == username })
}

func (m *Memory) ProfileByID(_ context.Context, id string) (*models.Profile, error) {
	return m.findProfile(func(p models.Profile) bool { return p.ID == id })
}

func (m *Memory) findProfile(match func(models.Profile) bool) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, p := range m.profiles {
		if match(p) {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) AcceptTerms(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	p, ok := m.profiles[id]
	if !ok {
		return ErrNotFound
	}
	t := now().UTC()
	p.TermsAcceptedAt = &t
	m.profiles[id] = p
	return nil
}

func (m *Memory) ListNotifications(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Notification
	for _, n := range m.notifications {
		if n.RecipientUserID == userID {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) MarkNotificationRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *Memory) MarkAllNotificationsRead(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for i := range m.notifications {
		if m.notifications[i].RecipientUserID == userID && !m.notifications[i].IsRead {
			m.notifications[i].IsRead = true
		}
	}
	return nil
}

func (m *Memory) SignIn(_ context.Context, email, password string) (*Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	acc, ok := m.accounts[strings.ToLower(email)]
	if !ok || acc.password != password {
		return nil, ErrUnauthorized
	}
	m.current = acc.userID

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   acc.userID,
		IssuedAt:  jwt.NewNumericDate(now()),
		ExpiresAt: jwt.NewNumericDate(now().Add(MemoryTokenTTL)),
	}).SignedString(MemorySigningKey)
	if err != nil {
		return nil, err
	}
	return &Tokens{AccessToken: access, RefreshToken: uuid.NewString(), UserID: acc.userID}, nil
}

func (m *Memory) RequestPasswordReset(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *Memory) UpdatePassword(_ context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.current == "" {
		return ErrUnauthorized
	}
	for email, acc := range m.accounts {
		if acc.userID == m.current {
			acc.password = password
			m.accounts[email] = acc
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }
