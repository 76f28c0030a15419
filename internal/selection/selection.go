// Package selection turns user-provided language and feature lists into the
// labels that end up in the bundle.
package selection

import "strings"

// ExcludePrefix marks a feature label as excluded.
const ExcludePrefix = "!"

// Features resolves the user's feature list against the known labels.
//
// An empty list selects every known feature. If any entry is an exclusion,
// the result is every known feature that is not excluded, and plain entries
// in the same list are ignored. Otherwise the list is returned as given.
func Features(known []string, user []string) []string {
	if len(user) == 0 {
		return append([]string(nil), known...)
	}

	excluded := make(map[string]bool)
	for _, feature := range user {
		if strings.HasPrefix(feature, ExcludePrefix) {
			excluded[strings.TrimPrefix(feature, ExcludePrefix)] = true
		}
	}
	if len(excluded) == 0 {
		return append([]string(nil), user...)
	}

	selected := make([]string, 0, len(known))
	for _, feature := range known {
		if !excluded[feature] {
			selected = append(selected, feature)
		}
	}
	return selected
}

// Languages returns the user's languages, or every known language if none were given.
func Languages(known []string, user []string) []string {
	if len(user) == 0 {
		return append([]string(nil), known...)
	}
	return append([]string(nil), user...)
}

// Unknown returns the labels in selected that are not known, in order.
// Exclusion prefixes are ignored.
func Unknown(known []string, selected []string) []string {
	knownSet := make(map[string]bool, len(known))
	for _, label := range known {
		knownSet[label] = true
	}

	var unknown []string
	for _, label := range selected {
		if !knownSet[strings.TrimPrefix(label, ExcludePrefix)] {
			unknown = append(unknown, label)
		}
	}
	return unknown
}
