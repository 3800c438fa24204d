// SPDX-License-Identifier: AGPL-3.0-only
package posts

import "strings"

// Filter returns the posts matching status (or StatusAll) whose title or caption
// contains search, ignoring case. Input order is kept.
func Filter(list []Post, search string, status Status) []Post {
	query := strings.ToLower(search)

	out := make([]Post, 0, len(list))
	for _, p := range list {
		if status != StatusAll && p.Status != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Caption), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
