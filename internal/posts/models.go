// SPDX-License-Identifier: AGPL-3.0-only
package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fluffyriot/postdeck/internal/database"
)

type Platform string

const (
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	TikTok    Platform = "tiktok"
	LinkedIn  Platform = "linkedin"
)

// Platforms is the fixed platform order used by every rollup and chart.
var Platforms = []Platform{Instagram, Facebook, TikTok, LinkedIn}

type Status string

const (
	StatusPublished Status = "published"
	StatusScheduled Status = "scheduled"
	StatusDraft     Status = "draft"

	// StatusAll is the filter sentinel that matches every status.
	StatusAll Status = "all"
)

const (
	// TimeLayout matches the ISO strings the dashboard has always stored: UTC, millisecond precision, fixed width.
	TimeLayout = "2006-01-02T15:04:05.000Z07:00"

	CopySuffix = " (Cópia)"
	MaxImages  = 5
)

var (
	ErrInvalidPlatform  = errors.New("invalid platform")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrScheduleRequired = errors.New("scheduled posts require a scheduled date")
)

func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPublished, StatusScheduled, StatusDraft:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParseStatusFilter accepts the three statuses plus "all". An empty value means "all".
func ParseStatusFilter(s string) (Status, error) {
	if s == "" || Status(s) == StatusAll {
		return StatusAll, nil
	}
	return ParseStatus(s)
}

type Post struct {
	ID            string     `json:"id"`
	Platform      Platform   `json:"platform"`
	Title         string     `json:"title"`
	ImageURLs     []string   `json:"imageUrls"`
	Caption       string     `json:"caption"`
	Likes         int64      `json:"likes"`
	Comments      int64      `json:"comments"`
	Status        Status     `json:"status"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// PrimaryImage returns the first image reference, or "" when the post has none.
func (p Post) PrimaryImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func fromRow(row database.Post) (Post, error) {
	p := Post{
		ID:       row.ID,
		Platform: Platform(row.Platform),
		Title:    row.Title,
		Caption:  row.Caption,
		Likes:    row.Likes,
		Comments: row.Comments,
		Status:   Status(row.Status),
	}

	p.ImageURLs = []string{}
	if row.ImageUrls != "" {
		if err := json.Unmarshal([]byte(row.ImageUrls), &p.ImageURLs); err != nil {
			return Post{}, fmt.Errorf("post %s: failed to parse image urls: %w", row.ID, err)
		}
	}

	if row.ScheduledDate.Valid && row.ScheduledDate.String != "" {
		t, err := ParseTime(row.ScheduledDate.String)
		if err != nil {
			return Post{}, fmt.Errorf("post %s: failed to parse scheduled date: %w", row.ID, err)
		}
		p.ScheduledDate = &t
	}

	var err error
	if p.CreatedAt, err = ParseTime(row.CreatedAt); err != nil {
		return Post{}, fmt.Errorf("post %s: failed to parse created_at: %w", row.ID, err)
	}
	if p.UpdatedAt, err = ParseTime(row.UpdatedAt); err != nil {
		return Post{}, fmt.Errorf("post %s: failed to parse updated_at: %w", row.ID, err)
	}

	return p, nil
}

func fromRows(rows []database.Post) ([]Post, error) {
	out := make([]Post, 0, len(rows))
	for _, row := range rows {
		p, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
