// SPDX-License-Identifier: AGPL-3.0-only
package database

import (
	"context"
	"database/sql"
)

const postColumns = `id, platform, title, image_urls, caption, likes, comments, status, scheduled_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (Post, error) {
	var i Post
	err := row.Scan(
		&i.ID,
		&i.Platform,
		&i.Title,
		&i.ImageUrls,
		&i.Caption,
		&i.Likes,
		&i.Comments,
		&i.Status,
		&i.ScheduledDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	defer rows.Close()
	var items []Post
	for rows.Next() {
		i, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPost = `INSERT INTO posts (
    id, platform, title, image_urls, caption, likes, comments, status, scheduled_date, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + postColumns

type CreatePostParams struct {
	ID            string
	Platform      string
	Title         string
	ImageUrls     string
	Caption       string
	Likes         int64
	Comments      int64
	Status        string
	ScheduledDate sql.NullString
	CreatedAt     string
	UpdatedAt     string
}

func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(createPost),
		arg.ID,
		arg.Platform,
		arg.Title,
		arg.ImageUrls,
		arg.Caption,
		arg.Likes,
		arg.Comments,
		arg.Status,
		arg.ScheduledDate,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

const getPost = `SELECT ` + postColumns + ` FROM posts WHERE platform = ? AND id = ?`

type GetPostParams struct {
	Platform string
	ID       string
}

func (q *Queries) GetPost(ctx context.Context, arg GetPostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(getPost), arg.Platform, arg.ID)
	return scanPost(row)
}

const listPostsByPlatform = `SELECT ` + postColumns + ` FROM posts WHERE platform = ? ORDER BY created_at DESC, id DESC`

func (q *Queries) ListPostsByPlatform(ctx context.Context, platform string) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listPostsByPlatform), platform)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

const listAllPostsChronological = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at ASC, id ASC`

func (q *Queries) ListAllPostsChronological(ctx context.Context) ([]Post, error) {
	rows, err := q.db.QueryContext(ctx, q.rebind(listAllPostsChronological))
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

const updatePost = `UPDATE posts SET
    title = ?,
    image_urls = ?,
    caption = ?,
    status = ?,
    scheduled_date = ?,
    updated_at = ?
WHERE platform = ? AND id = ?
RETURNING ` + postColumns

type UpdatePostParams struct {
	Title         string
	ImageUrls     string
	Caption       string
	Status        string
	ScheduledDate sql.NullString
	UpdatedAt     string
	Platform      string
	ID            string
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (Post, error) {
	row := q.db.QueryRowContext(ctx, q.rebind(updatePost),
		arg.Title,
		arg.ImageUrls,
		arg.Caption,
		arg.Status,
		arg.ScheduledDate,
		arg.UpdatedAt,
		arg.Platform,
		arg.ID,
	)
	return scanPost(row)
}

const deletePost = `DELETE FROM posts WHERE platform = ? AND id = ?`

type DeletePostParams struct {
	Platform string
	ID       string
}

func (q *Queries) DeletePost(ctx context.Context, arg DeletePostParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(deletePost), arg.Platform, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const publishDuePosts = `UPDATE posts SET
    status = 'published',
    updated_at = ?
WHERE status = 'scheduled'
  AND scheduled_date IS NOT NULL
  AND scheduled_date <= ?`

type PublishDuePostsParams struct {
	UpdatedAt string
	Now       string
}

func (q *Queries) PublishDuePosts(ctx context.Context, arg PublishDuePostsParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, q.rebind(publishDuePosts), arg.UpdatedAt, arg.Now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countPosts = `SELECT COUNT(*) FROM posts`

func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPosts)
	var count int64
	err := row.Scan(&count)
	return count, err
}
