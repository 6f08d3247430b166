package youtube

import (
	"regexp"
	"strings"
)

var (
	videoIDRE    = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	validIDChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ExtractVideoID returns the video id of a YouTube URL, or "" if s is not one.
func ExtractVideoID(s string) string {
	m := videoIDRE.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// ParseVideoIDs normalizes user input into distinct video ids.
// URLs are reduced to their id; duplicates keep the first occurrence.
func ParseVideoIDs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, &ConfigError{Field: "video_ids", Reason: "at least one video id is required"}
	}
	seen := make(map[string]bool, len(inputs))
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id := strings.TrimSpace(in)
		if id == "" {
			return nil, &ConfigError{Field: "video_ids", Reason: "empty video id"}
		}
		if strings.Contains(id, "/") {
			id = ExtractVideoID(id)
			if id == "" {
				return nil, &ConfigError{Field: "video_ids", Reason: "not a YouTube video URL: " + in}
			}
		}
		if !validIDChars.MatchString(id) {
			return nil, &ConfigError{Field: "video_ids", Reason: "malformed video id: " + in}
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
