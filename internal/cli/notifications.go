package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/mention"
	"github.com/housersapp/housers/internal/models"
)

// Notifications reloads and prints the list. When the reload fails the last
// held list is shown under the error.
func (a *App) Notifications(ctx context.Context) error {
	uid, err := a.currentUser()
	if err != nil {
		return err
	}

	list, loadErr := a.engine.Load(ctx, uid)
	if loadErr != nil {
		printlnFn(describeError(loadErr))
		list = a.engine.Notifications()
	}
	if len(list) == 0 {
		if loadErr == nil {
			printlnFn(mutedStyle.Render("No notifications yet."))
		}
		return nil
	}

	bodies := a.renderMessages(ctx, list)
	t := now()
	printlnFn(headerStyle.Render(fmt.Sprintf("Notifications (%d unread)", a.engine.UnreadCount())))
	for i, n := range list {
		printlnFn(notificationLine(n, bodies[i], t))
	}
	return nil
}

// renderMessages resolves the mentions of every message with one batched
// lookup.
func (a *App) renderMessages(ctx context.Context, list []models.Notification) []string {
	tokens := make([][]models.MentionToken, len(list))
	var names []string
	for i, n := range list {
		tokens[i] = mention.Segment(n.Message)
		names = append(names, mention.Usernames(tokens[i])...)
	}
	resolved := a.resolver.Resolve(ctx, names)

	out := make([]string, len(list))
	for i := range list {
		out[i] = renderSpans(mention.Render(tokens[i], resolved))
	}
	return out
}

// Read marks one notification read. id may be the short prefix shown in the
// list.
func (a *App) Read(ctx context.Context, id string) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}
	full, err := a.matchNotification(id)
	if err != nil {
		return err
	}
	if err := a.engine.MarkRead(ctx, full); err != nil {
		// the local change stands
		printlnFn(mutedStyle.Render("Marked read locally; the server will catch up."))
		return err
	}
	printlnFn("Marked read")
	return nil
}

func (a *App) matchNotification(prefix string) (string, error) {
	var match string
	for _, n := range a.engine.Notifications() {
		if n.ID == prefix {
			return n.ID, nil
		}
		if strings.HasPrefix(n.ID, prefix) {
			if match != "" {
				return "", common.Invalid("id", "matches more than one notification")
			}
			match = n.ID
		}
	}
	if match == "" {
		return "", common.Invalid("id", "no such notification")
	}
	return match, nil
}

func (a *App) ReadAll(ctx context.Context) error {
	uid, err := a.currentUser()
	if err != nil {
		return err
	}
	if err := a.engine.MarkAllRead(ctx, uid); err != nil {
		if errors.Is(err, common.ErrNetwork) {
			printlnFn(mutedStyle.Render("Marked read locally; the server will catch up."))
		}
		return err
	}
	printlnFn("All caught up")
	return nil
}
