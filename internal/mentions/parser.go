// Package mentions extracts @handle tokens from free text.
package mentions

import "regexp"

// A mention is "@" followed by one or more identifier characters (letters,
// digits, underscore). The token ends at the first character outside that
// set.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Parse returns the mentioned handles in left-to-right order of appearance.
// Duplicates are preserved; resolving handles to users (and dropping the
// ones that do not resolve) is the caller's job.
func Parse(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		handles = append(handles, m[1])
	}
	return handles
}
