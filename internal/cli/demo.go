package cli

import (
	"time"

	"github.com/99designs/keyring"

	"github.com/housersapp/housers/internal/backend"
	"github.com/housersapp/housers/internal/models"
)

const (
	demoEmail    = "demo@housers.app"
	demoPassword = "housers"
)

// newDemoKeyring keeps demo tokens in memory so demo runs never touch the
// OS keyring.
func newDemoKeyring() keyring.Keyring {
	return keyring.NewArrayKeyring(nil)
}

// seedDemo fills mem with a small neighbourhood of users and notifications.
func seedDemo(mem *backend.Memory) {
	me := mem.AddProfile(models.Profile{Username: "demo", FullName: "Demo User", Points: 140})
	ann := mem.AddProfile(models.Profile{Username: "ann", FullName: "Ann Agent", Points: 2300})
	bob := mem.AddProfile(models.Profile{Username: "bob", Points: 20})
	mem.AddProfile(models.Profile{Username: "carol_h", FullName: "Carol Hill", Points: 610})
	mem.AddAccount(demoEmail, demoPassword, me.ID)

	t := now()
	mem.AddNotification(models.Notification{
		RecipientUserID:  me.ID,
		TriggeringUserID: &ann.ID,
		Kind:             models.KindComment,
		Title:            "New comment",
		Message:          "@ann replied: ask @carol_h about the open house",
		CreatedAt:        t.Add(-5 * time.Minute),
	})
	mem.AddNotification(models.Notification{
		RecipientUserID:  me.ID,
		TriggeringUserID: &bob.ID,
		Kind:             models.KindLike,
		Title:            "New like",
		Message:          "@bob liked your listing",
		CreatedAt:        t.Add(-2 * time.Hour),
	})
	mem.AddNotification(models.Notification{
		RecipientUserID: me.ID,
		Kind:            models.KindOpenHouseCancelled,
		Title:           "Open house cancelled",
		Message:         "Saturday's open house on Elm St was cancelled by @nobody",
		CreatedAt:       t.Add(-26 * time.Hour),
		IsRead:          true,
	})
}
