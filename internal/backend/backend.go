package backend

import (
	"context"

	"github.com/housersapp/housers/internal/models"
)

// ProfileDirectory reads and updates rows of the profiles table.
type ProfileDirectory interface {
	// ProfilesByUsernames returns the profiles whose username is in the given
	// set. Unknown usernames are simply absent from the result.
	ProfilesByUsernames(ctx context.Context, usernames []string) ([]models.Profile, error)
	// ProfileByUsername returns ErrNotFound when no row matches.
	ProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	// ProfileByID returns ErrNotFound when no row matches.
	ProfileByID(ctx context.Context, id string) (*models.Profile, error)
	// AcceptTerms stamps terms_accepted_at for the given profile.
	AcceptTerms(ctx context.Context, id string) error
}

// NotificationStore reads and updates rows of the notifications table.
type NotificationStore interface {
	// ListNotifications returns up to limit rows for userID, newest first.
	ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	// MarkNotificationRead sets is_read = true for a single row.
	MarkNotificationRead(ctx context.Context, id string) error
	// MarkAllNotificationsRead sets is_read = true on every unread row of userID.
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Tokens is a backend session as issued by the auth endpoint.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       string `json:"-"`
}

// Authenticator is the auth collaborator.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, password string) error
}

// Backend bundles everything the client talks to.
type Backend interface {
	ProfileDirectory
	NotificationStore
	Authenticator
	Close() error
}
