// SPDX-License-Identifier: AGPL-3.0-only
package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/fluffyriot/postdeck/internal/database"
)

type CreateInput struct {
	Title         string
	ImageURLs     []string
	Caption       string
	Status        Status
	ScheduledDate *time.Time
}

// UpdateInput carries only the user-editable fields. Nil fields are left unchanged.
type UpdateInput struct {
	Title         *string
	ImageURLs     []string
	Caption       *string
	Status        *Status
	ScheduledDate *time.Time
}

type Service struct {
	DB  *database.Queries
	Now func() time.Time

	ids idClock
}

func NewService(db *database.Queries) *Service {
	return &Service{
		DB:  db,
		Now: time.Now,
	}
}

// idClock hands out millisecond timestamps as ids, bumping forward when two
// creates land in the same millisecond.
type idClock struct {
	mu   sync.Mutex
	last int64
}

func (c *idClock) next(now time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10)
}

func (s *Service) List(ctx context.Context, platform Platform) ([]Post, error) {
	rows, err := s.DB.ListPostsByPlatform(ctx, string(platform))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s posts: %w", platform, err)
	}
	return fromRows(rows)
}

// ListChronological returns every post ordered by creation time, oldest first,
// which is the order the analytics month buckets expect.
func (s *Service) ListChronological(ctx context.Context) ([]Post, error) {
	rows, err := s.DB.ListAllPostsChronological(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return fromRows(rows)
}

// Get returns nil without error when no post matches.
func (s *Service) Get(ctx context.Context, platform Platform, id string) (*Post, error) {
	row, err := s.DB.GetPost(ctx, database.GetPostParams{Platform: string(platform), ID: id})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %s/%s: %w", platform, id, err)
	}

	p, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, platform Platform, in CreateInput) (Post, error) {
	if _, err := ParsePlatform(string(platform)); err != nil {
		return Post{}, err
	}
	if _, err := ParseStatus(string(in.Status)); err != nil {
		return Post{}, err
	}
	if in.Status == StatusScheduled && in.ScheduledDate == nil {
		return Post{}, ErrScheduleRequired
	}

	images := in.ImageURLs
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return Post{}, fmt.Errorf("failed to encode image urls: %w", err)
	}

	now := s.Now()
	stamp := FormatTime(now)

	row, err := s.DB.CreatePost(ctx, database.CreatePostParams{
		ID:            s.ids.next(now),
		Platform:      string(platform),
		Title:         in.Title,
		ImageUrls:     string(imagesJSON),
		Caption:       in.Caption,
		Likes:         0,
		Comments:      0,
		Status:        string(in.Status),
		ScheduledDate: nullTime(in.ScheduledDate),
		CreatedAt:     stamp,
		UpdatedAt:     stamp,
	})
	if err != nil {
		return Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return fromRow(row)
}

// Update applies the non-nil fields of in. A post left in any status other than
// scheduled loses its scheduled date. It returns nil without error when no post matches.
func (s *Service) Update(ctx context.Context, platform Platform, id string, in UpdateInput) (*Post, error) {
	current, err := s.Get(ctx, platform, id)
	if err != nil || current == nil {
		return nil, err
	}

	if in.Title != nil {
		current.Title = *in.Title
	}
	if in.ImageURLs != nil {
		current.ImageURLs = in.ImageURLs
	}
	if in.Caption != nil {
		current.Caption = *in.Caption
	}
	if in.Status != nil {
		if _, err := ParseStatus(string(*in.Status)); err != nil {
			return nil, err
		}
		current.Status = *in.Status
	}
	if in.ScheduledDate != nil {
		current.ScheduledDate = in.ScheduledDate
	}
	if current.Status != StatusScheduled {
		current.ScheduledDate = nil
	}
	if current.Status == StatusScheduled && current.ScheduledDate == nil {
		return nil, ErrScheduleRequired
	}

	imagesJSON, err := json.Marshal(current.ImageURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image urls: %w", err)
	}

	row, err := s.DB.UpdatePost(ctx, database.UpdatePostParams{
		Title:         current.Title,
		ImageUrls:     string(imagesJSON),
		Caption:       current.Caption,
		Status:        string(current.Status),
		ScheduledDate: nullTime(current.ScheduledDate),
		UpdatedAt:     FormatTime(s.Now()),
		Platform:      string(platform),
		ID:            id,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post %s/%s: %w", platform, id, err)
	}

	p, err := fromRow(row)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete reports whether a row was actually removed.
func (s *Service) Delete(ctx context.Context, platform Platform, id string) (bool, error) {
	n, err := s.DB.DeletePost(ctx, database.DeletePostParams{Platform: string(platform), ID: id})
	if err != nil {
		return false, fmt.Errorf("failed to delete post %s/%s: %w", platform, id, err)
	}
	return n > 0, nil
}

// Clone copies the content of a post into a new draft. It is a read followed by a
// create; a failed create leaves nothing behind and nothing is rolled back.
func (s *Service) Clone(ctx context.Context, platform Platform, id string) (*Post, error) {
	src, err := s.Get(ctx, platform, id)
	if err != nil || src == nil {
		return nil, err
	}

	images := make([]string, len(src.ImageURLs))
	copy(images, src.ImageURLs)

	cloned, err := s.Create(ctx, platform, CreateInput{
		Title:     src.Title + CopySuffix,
		ImageURLs: images,
		Caption:   src.Caption,
		Status:    StatusDraft,
	})
	if err != nil {
		return nil, err
	}
	return &cloned, nil
}

// PublishDue flips every scheduled post whose scheduled date is not after now to published.
func (s *Service) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	stamp := FormatTime(now)
	n, err := s.DB.PublishDuePosts(ctx, database.PublishDuePostsParams{
		UpdatedAt: stamp,
		Now:       stamp,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to publish scheduled posts: %w", err)
	}
	return n, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}
