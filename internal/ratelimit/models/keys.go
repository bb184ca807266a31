package models

import (
	"strings"
)

const keyDelimiter = ":"

// NewKey builds the limiter key `action:identifier`.
// The identifier is sanitized so user-controlled values containing ':' cannot
// land in another action's bucket.
func NewKey(action Action, identifier string) string {
	return string(action) + keyDelimiter + sanitizeKeySegment(identifier)
}

// ActionFromKey returns the action segment of a key, or "" when the key has no
// delimiter.
func ActionFromKey(key string) Action {
	action, _, found := strings.Cut(key, keyDelimiter)
	if !found {
		return ""
	}
	return Action(action)
}

// sanitizeKeySegment escapes delimiter characters in key segments.
//
// Escape rules (order matters):
//  1. Escape '_' to '__' (escape the escape character first)
//  2. Escape ':' to '_c' (escape the delimiter)
//
// No two distinct inputs produce the same sanitized output.
func sanitizeKeySegment(s string) string {
	s = strings.ReplaceAll(s, "_", "__")
	s = strings.ReplaceAll(s, ":", "_c")
	return s
}
