package pubsub

import (
	"path/filepath"

	"monacobundle.dev/internal/identity"
)

// BuildTopic identifies the rebuild notifications for one output directory.
func BuildTopic(outdir string) TopicId {
	return TopicId{
		Category: identity.Category("builds", filepath.ToSlash(filepath.Clean(outdir))),
		Key:      "events",
	}
}

// BuildEvent is what gets published on a BuildTopic after every build.
type BuildEvent struct {
	Kind     string   `json:"kind"`
	Files    []string `json:"files,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}
