// Package mentions scans free text for @-mentions and fans out
// notifications to the mentioned team members.
package mentions

import "regexp"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// Scan extracts the mention tokens from content, without the @ prefix,
// deduplicated in order of first occurrence.
func Scan(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var tokens []string
	for _, m := range matches {
		token := m[1]
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}
