// SPDX-License-Identifier: AGPL-3.0-only
package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fluffyriot/postdeck/internal/posts"
)

var header = []string{
	"id",
	"platform",
	"title",
	"caption",
	"status",
	"likes",
	"comments",
	"scheduled_date",
	"created_at",
	"updated_at",
	"image_count",
}

// Filename names a download for one platform, stamped with the export time.
func Filename(platform posts.Platform, now time.Time) string {
	return fmt.Sprintf("export_%s_posts_%s.csv", platform, now.Format("20060102_150405"))
}

// WritePostsCSV writes one row per post. Image data is left out; data URLs
// would dwarf the rest of the file.
func WritePostsCSV(w io.Writer, list []posts.Post) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return err
	}

	for _, p := range list {
		scheduled := ""
		if p.ScheduledDate != nil {
			scheduled = posts.FormatTime(*p.ScheduledDate)
		}

		record := []string{
			p.ID,
			string(p.Platform),
			safeCell(p.Title),
			safeCell(p.Caption),
			string(p.Status),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Comments, 10),
			scheduled,
			posts.FormatTime(p.CreatedAt),
			posts.FormatTime(p.UpdatedAt),
			strconv.Itoa(len(p.ImageURLs)),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write post %s: %w", p.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// safeCell quotes user text that a spreadsheet would evaluate as a formula.
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}
