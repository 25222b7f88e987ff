package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/housersapp/housers/internal/avatar"
	"github.com/housersapp/housers/internal/mention"
	"github.com/housersapp/housers/internal/models"
	"github.com/housersapp/housers/internal/tier"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorAccent = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(colorAccent).Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorGray)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	linkStyle   = lipgloss.NewStyle().Foreground(colorAccent).Underline(true)
	unreadStyle = lipgloss.NewStyle().Bold(true)
	cardStyle   = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(colorGray)
)

// badgeStyle renders the unread count, or a dim dot when there is nothing new.
func badgeStyle(n int) string {
	if n <= 0 {
		return mutedStyle.Render("·")
	}
	label := fmt.Sprint(n)
	if n > 99 {
		label = "99+"
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(colorRed).Padding(0, 1).Render(label)
}

// swatch draws the gradient fallback avatar: the initial on the From color
// next to a block of the To color.
func swatch(g avatar.Gradient, initial string) string {
	from := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(string(g.From))).Padding(0, 1)
	to := lipgloss.NewStyle().Background(lipgloss.Color(string(g.To))).Padding(0, 1)
	return from.Render(initial) + to.Render(" ")
}

func tierBadge(points int) string {
	t := tier.For(points)
	s := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Color())).Render(t.String())
	if next, missing, ok := tier.Next(points); ok {
		s += mutedStyle.Render(fmt.Sprintf(" (%s in %s pts)", next, humanize.Comma(int64(missing))))
	}
	return s
}

// relTime is a humanized "3 minutes ago" relative to now.
func relTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func renderSpans(spans []mention.Span) string {
	var b strings.Builder
	for _, s := range spans {
		if s.Linked() {
			b.WriteString(linkStyle.Render(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// notificationLine is one row of the notifications list.
func notificationLine(n models.Notification, body string, now time.Time) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Kind.Color())).Render(n.Kind.Icon())
	title := n.Title
	dot := " "
	if !n.IsRead {
		title = unreadStyle.Render(title)
		dot = errorStyle.Render("●")
	}
	return fmt.Sprintf("%s %s %s %s %s\n    %s", dot, icon, mutedStyle.Render(shortID(n.ID)), title,
		mutedStyle.Render(relTime(n.CreatedAt, now)), body)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func profileCard(p models.Profile, av avatar.Avatar) string {
	lines := []string{
		swatch(av.Gradient, av.Initial) + " " + headerStyle.Render(p.DisplayName()),
		"@" + p.Username + "  " + tierBadge(p.Points),
	}
	if av.HasImage() {
		lines = append(lines, mutedStyle.Render(av.URL))
	}
	if p.TermsAcceptedAt == nil {
		lines = append(lines, mutedStyle.Render("terms not accepted yet"))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
