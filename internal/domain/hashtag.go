package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Hashtag is a normalized topical tag. TotalPosts is a denormalized counter
// kept consistent with the number of post links by the store.
type Hashtag struct {
	ID         uuid.UUID
	Tag        string
	TotalPosts int64
	CreatedAt  time.Time
}

// NormalizeTag canonicalizes a single raw hashtag token: whitespace trimmed,
// leading '#' stripped, lowercased. Returns "" for tokens that are empty
// after normalization.
func NormalizeTag(raw string) string {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.TrimSpace(tag)
	return strings.ToLower(tag)
}

// SplitTags parses a comma-separated hashtag input into normalized,
// deduplicated tags, preserving first-seen order.
func SplitTags(input string) []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, token := range strings.Split(input, ",") {
		tag := NormalizeTag(token)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
