package identity

import (
	"fmt"
	"net/url"
	"path"
)

type Id struct {
	// The category of the ID, always a valid URL path beginning with `/`.
	// User input must be escaped with Category before it ends up here.
	//
	// The following path formats are currently used:
	// - /builds/{outdir} - rebuild notifications for one output directory
	// - /topics - meta category for information about topics
	Category string `json:"category"`
	// The identifier used to refer to an object. This is not cleaned, and has no
	// guarantees about formatting.
	Key string `json:"key"`
}

func (id Id) String() string {
	// The '#' character gets path escaped to '%23', so there's no way it can be in the category,
	// making it possible to go back and forth between this format and the struct.
	return fmt.Sprintf(
		"%s#%s",
		id.Category,
		id.Key,
	)
}

// Category cleans its inputs and then joins them into a category. If you already
// have a valid category, use path.Join to extend it instead.
func Category(ids ...string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, escapeSegment(id))
	}

	return "/" + path.Join(parts...)
}

// escapeSegment escapes a single path segment. PathEscape leaves dots alone,
// so `.` and `..` are spelled out to keep path.Join from collapsing them.
func escapeSegment(id string) string {
	switch id {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(id)
}
