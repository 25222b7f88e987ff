package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/housersapp/housers/internal/common"
	"github.com/housersapp/housers/internal/mention"
)

// Mentions renders text with every resolvable @username linked.
func (a *App) Mentions(ctx context.Context, text string) error {
	tokens := mention.Segment(text)
	resolved := a.resolver.Resolve(ctx, mention.Usernames(tokens))
	printlnFn(renderSpans(mention.Render(tokens, resolved)))
	return nil
}

// Open follows a mention to the user's profile.
func (a *App) Open(ctx context.Context, username string) error {
	username = strings.TrimPrefix(username, "@")
	id, ok := a.resolver.Activate(ctx, username)
	if !ok {
		printlnFn(mutedStyle.Render("No user @" + username))
		return nil
	}
	p, err := a.backend.ProfileByID(ctx, id)
	if err != nil {
		return err
	}
	printlnFn(profileCard(*p, a.avatars.Resolve(ctx, *p)))
	return nil
}

// Avatar shows the picture URL, or the gradient drawn when there is none.
func (a *App) Avatar(ctx context.Context, username string) error {
	username = strings.TrimPrefix(username, "@")
	p, err := a.backend.ProfileByUsername(ctx, username)
	if errors.Is(err, common.ErrNotFound) {
		printlnFn(mutedStyle.Render("No user @" + username))
		return nil
	}
	if err != nil {
		return err
	}
	av := a.avatars.Resolve(ctx, *p)
	line := swatch(av.Gradient, av.Initial) + " " + string(av.Gradient.From) + " → " + string(av.Gradient.To)
	if av.HasImage() {
		line += "\n" + av.URL
	}
	printlnFn(line)
	return nil
}
