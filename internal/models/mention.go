package models

// MentionToken is a span of source text. Username is set only for mention
// candidates ("@" + word characters); literal spans leave it empty.
type MentionToken struct {
	Raw      string
	Username string
}

// IsMention reports whether the token is a mention candidate.
func (t MentionToken) IsMention() bool {
	return t.Username != ""
}
