package mention

import (
	"regexp"

	"github.com/housersapp/housers/internal/models"
)

var mentionPattern = regexp.MustCompile(`@[A-Za-z0-9_]+`)

// Segment splits text into alternating literal and mention tokens.
func Segment(text string) []models.MentionToken {
	var tokens []models.MentionToken
	last := 0
	for _, loc := range mentionPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			tokens = append(tokens, models.MentionToken{Raw: text[last:loc[0]]})
		}
		raw := text[loc[0]:loc[1]]
		tokens = append(tokens, models.MentionToken{Raw: raw, Username: raw[1:]})
		last = loc[1]
	}
	if last < len(text) {
		tokens = append(tokens, models.MentionToken{Raw: text[last:]})
	}
	return tokens
}

// Usernames returns the distinct usernames mentioned in tokens, in order of
// first appearance.
func Usernames(tokens []models.MentionToken) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range tokens {
		if !t.IsMention() {
			continue
		}
		if _, ok := seen[t.Username]; ok {
			continue
		}
		seen[t.Username] = struct{}{}
		out = append(out, t.Username)
	}
	return out
}
