package post

import (
	"strings"
	"time"
)

// Author is the embedded author summary joined into feed rows.
type Author struct {
	ID        string  `json:"id"`
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatar_url"`
}

// Post is a feed entry as served by the backend. The authoritative
// schema lives in the remote service; this mirrors what the client
// consumes.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	Author    Author    `json:"users"`
}

// OwnedBy reports whether userID is the post's creator.
func (p *Post) OwnedBy(userID string) bool {
	return userID != "" && p.UserID == userID
}

// MaxTitleLen is the longest accepted title, counted in runes after
// trimming.
const MaxTitleLen = 200

// Input is the composer's raw form state before validation.
type Input struct {
	Title   string
	Content string
	Tags    string
}

// Draft is a validated, normalized post body ready to be written.
// Tags is nil (not an empty slice) when no tags were given, so it
// serializes as absent rather than [].
type Draft struct {
	Title   string
	Content string
	Tags    []string
}

// ParseTags splits a comma-separated tag string, trims each entry and
// drops empties. An input with no usable tags yields nil.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		tags = append(tags, t)
	}
	return tags
}
