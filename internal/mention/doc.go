// Package mention turns free text containing @username references into
// tappable spans.
//
// # Segmentation
//
// Segment splits text into literal and mention tokens. It is lossless:
// concatenating the Raw field of every token reproduces the input exactly.
// A mention is "@" followed by the longest run of ASCII letters, digits and
// underscores; anything else, including a bare "@", stays literal.
//
// # Resolution
//
// Resolver maps usernames to user ids with one batched profiles lookup per
// call. Resolved ids are cached for the lifetime of the Resolver (one
// session). A username whose lookup is already running joins that lookup
// instead of issuing another one. Lookups are detached from the caller's
// context so that a cancelled render still warms the cache for the next one.
//
// Failures are logged and degrade to "not resolved". They are never cached,
// and neither is "no such user", so a later render retries.
package mention
