// Package notifications keeps the last notification list fetched for each
// user so the client can show something before the backend answers, or when
// it does not answer at all.
package notifications

import (
	"context"

	"github.com/housersapp/housers/internal/models"
)

type Repository interface {
	// Save replaces the stored snapshot for userID with list.
	Save(ctx context.Context, userID string, list []models.Notification) error
	// Load returns the stored snapshot for userID, newest first.
	Load(ctx context.Context, userID string) ([]models.Notification, error)
	// MarkRead flips the given ids to read. Unknown ids are ignored.
	MarkRead(ctx context.Context, ids ...string) error
	// MarkAllRead flips every stored notification of userID to read.
	MarkAllRead(ctx context.Context, userID string) error
}
