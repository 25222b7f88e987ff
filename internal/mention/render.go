package mention

import (
	"strings"

	"github.com/housersapp/housers/internal/models"
)

// Span is one piece of rendered text. UserID is set only for mentions that
// resolved; such spans are links.
type Span struct {
	Text     string
	Username string
	UserID   string
}

func (s Span) Linked() bool { return s.UserID != "" }

// Render pairs tokens with a resolution map. Mentions that did not resolve
// render as plain text.
func Render(tokens []models.MentionToken, resolved map[string]string) []Span {
	spans := make([]Span, 0, len(tokens))
	for _, t := range tokens {
		s := Span{Text: t.Raw}
		if t.IsMention() {
			s.Username = t.Username
			s.UserID = resolved[t.Username]
		}
		spans = append(spans, s)
	}
	return spans
}

// PlainText concatenates the span texts.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
