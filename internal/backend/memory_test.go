package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/housersapp/housers/internal/models"
)

func TestMemory_Profiles(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice := m.AddProfile(models.Profile{Username: "alice"})
	m.AddProfile(models.Profile{Username: "bob"})
	require.NotEmpty(t, alice.ID)

	got, err := m.ProfilesByUsernames(ctx, []string{"alice", "ghost"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, alice.ID, got[0].ID)

	_, err = m.ProfileByUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.AcceptTerms(ctx, alice.ID))
	p, err := m.ProfileByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, p.TermsAcceptedAt)
}

func TestMemory_Notifications(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m.AddNotification(models.Notification{RecipientUserID: "u-1", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	m.AddNotification(models.Notification{RecipientUserID: "u-2", CreatedAt: base})

	got, err := m.ListNotifications(ctx, "u-1", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].CreatedAt.After(got[1].CreatedAt))

	require.NoError(t, m.MarkNotificationRead(ctx, got[0].ID))
	require.NoError(t, m.MarkAllNotificationsRead(ctx, "u-1"))

	all, err := m.ListNotifications(ctx, "u-1", 0)
	require.NoError(t, err)
	for _, n := range all {
		assert.True(t, n.IsRead)
	}
	other, err := m.ListNotifications(ctx, "u-2", 0)
	require.NoError(t, err)
	assert.False(t, other[0].IsRead)
}

func TestMemory_Auth(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.AddAccount("Alice@Example.com", "pw", "u-1")

	_, err := m.SignIn(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, m.UpdatePassword(ctx, "x"), ErrUnauthorized)

	tok, err := m.SignIn(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-1", tok.UserID)

	require.NoError(t, m.UpdatePassword(ctx, "pw2"))
	_, err = m.SignIn(ctx, "alice@example.com", "pw2")
	require.NoError(t, err)
}

func TestMemory_Err(t *testing.T) {
	m := NewMemory()
	m.Err = errors.New("down")
	_, err := m.ListNotifications(context.Background(), "u", 1)
	require.Error(t, err)
	require.Error(t, m.RequestPasswordReset(context.Background(), "a@b.c"))
}
