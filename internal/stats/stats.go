// SPDX-License-Identifier: AGPL-3.0-only
package stats

import (
	"math"
	"time"

	"github.com/fluffyriot/postdeck/internal/helpers"
	"github.com/fluffyriot/postdeck/internal/posts"
)

// TrendWindow is the number of most recent month buckets kept in each trend series.
const TrendWindow = 12

type PlatformStats struct {
	Posts             int64   `json:"posts"`
	Likes             int64   `json:"likes"`
	Comments          int64   `json:"comments"`
	AverageLikes      float64 `json:"averageLikes"`
	AverageComments   float64 `json:"averageComments"`
	AverageEngagement float64 `json:"averageEngagement"`
	Label             string  `json:"label"`
}

type RatioPoint struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
	Fill  string  `json:"fill"`
}

type StackedPoint struct {
	Name     string `json:"name"`
	Likes    int64  `json:"likes"`
	Comments int64  `json:"comments"`
}

type TrendRow struct {
	Name      string  `json:"name"`
	Instagram float64 `json:"instagram"`
	Facebook  float64 `json:"facebook"`
	TikTok    float64 `json:"tiktok"`
	LinkedIn  float64 `json:"linkedin"`
}

func (r *TrendRow) set(platform posts.Platform, v float64) {
	switch platform {
	case posts.Instagram:
		r.Instagram = v
	case posts.Facebook:
		r.Facebook = v
	case posts.TikTok:
		r.TikTok = v
	case posts.LinkedIn:
		r.LinkedIn = v
	}
}

type Summary struct {
	TotalPosts                     int64                            `json:"totalPosts"`
	TotalLikes                     int64                            `json:"totalLikes"`
	TotalComments                  int64                            `json:"totalComments"`
	AverageLikesPerPost            int64                            `json:"averageLikesPerPost"`
	AverageCommentsPerPost         int64                            `json:"averageCommentsPerPost"`
	AverageEngagementRatio         float64                          `json:"averageEngagementRatio"`
	LikesGrowth                    int64                            `json:"likesGrowth"`
	CommentsGrowth                 int64                            `json:"commentsGrowth"`
	ByPlatform                     map[posts.Platform]PlatformStats `json:"byPlatform"`
	EngagementRatioByPlatform      []RatioPoint                     `json:"engagementRatioByPlatform"`
	LikesCommentsStackedByPlatform []StackedPoint                   `json:"likesCommentsStackedByPlatform"`
	LikesByPlatformTrend           []TrendRow                       `json:"likesByPlatformTrend"`
	EngagementRatioTrend           []TrendRow                       `json:"engagementRatioTrend"`
}

// Calculate reduces a post collection into dashboard totals and chart series.
// Month buckets are emitted in the order they are first seen, so list must be
// in chronological order for the trends and growth figures to be meaningful.
func Calculate(list []posts.Post, loc *time.Location) Summary {
	byPlatform := make(map[posts.Platform]PlatformStats, len(posts.Platforms))
	for _, platform := range posts.Platforms {
		byPlatform[platform] = platformStats(list, platform)
	}

	var totalLikes, totalComments int64
	for _, p := range list {
		totalLikes += p.Likes
		totalComments += p.Comments
	}
	totalPosts := int64(len(list))

	var averageEngagementRatio float64
	if totalPosts > 0 {
		averageEngagementRatio = float64(totalLikes+totalComments) / float64(totalPosts)
	}

	ratios := make([]RatioPoint, 0, len(posts.Platforms))
	stacked := make([]StackedPoint, 0, len(posts.Platforms))
	for _, platform := range posts.Platforms {
		ps := byPlatform[platform]

		var ratio float64
		if averageEngagementRatio > 0 {
			ratio = jsRound(ps.AverageEngagement*100/averageEngagementRatio) / 100
		}

		ratios = append(ratios, RatioPoint{
			Name:  ps.Label,
			Ratio: ratio,
			Fill:  chartFill(platform),
		})
		stacked = append(stacked, StackedPoint{
			Name:     ps.Label,
			Likes:    ps.Likes,
			Comments: ps.Comments,
		})
	}

	buckets := bucketByMonth(list, loc)

	summary := Summary{
		TotalPosts:                     totalPosts,
		TotalLikes:                     totalLikes,
		TotalComments:                  totalComments,
		AverageEngagementRatio:         round2(averageEngagementRatio),
		LikesGrowth:                    growth(buckets, func(b *monthBucket) int64 { return b.totalLikes }),
		CommentsGrowth:                 growth(buckets, func(b *monthBucket) int64 { return b.totalComments }),
		ByPlatform:                     byPlatform,
		EngagementRatioByPlatform:      ratios,
		LikesCommentsStackedByPlatform: stacked,
		LikesByPlatformTrend:           likesTrend(buckets),
		EngagementRatioTrend:           engagementRatioTrend(buckets),
	}
	if totalPosts > 0 {
		summary.AverageLikesPerPost = int64(jsRound(float64(totalLikes) / float64(totalPosts)))
		summary.AverageCommentsPerPost = int64(jsRound(float64(totalComments) / float64(totalPosts)))
	}

	return summary
}

func platformStats(list []posts.Post, platform posts.Platform) PlatformStats {
	ps := PlatformStats{Label: helpers.PlatformLabel(platform)}
	for _, p := range list {
		if p.Platform != platform {
			continue
		}
		ps.Posts++
		ps.Likes += p.Likes
		ps.Comments += p.Comments
	}

	if ps.Posts > 0 {
		ps.AverageLikes = float64(ps.Likes) / float64(ps.Posts)
		ps.AverageComments = float64(ps.Comments) / float64(ps.Posts)
	}
	ps.AverageEngagement = ps.AverageLikes + ps.AverageComments

	return ps
}

func chartFill(platform posts.Platform) string {
	cfg, err := helpers.GetPlatformConfig(platform)
	if err != nil {
		return ""
	}
	return cfg.ChartFill
}

type monthBucket struct {
	label         string
	totalLikes    int64
	totalComments int64
	likes         map[posts.Platform]int64
	posts         map[posts.Platform]int64
	engagement    map[posts.Platform]int64
}

// bucketByMonth groups posts by the month label of their creation time, in
// first-seen order. Posts without a creation time are skipped.
func bucketByMonth(list []posts.Post, loc *time.Location) []*monthBucket {
	var order []*monthBucket
	index := make(map[string]*monthBucket)

	for _, p := range list {
		if p.CreatedAt.IsZero() {
			continue
		}

		label := helpers.MonthLabel(p.CreatedAt, loc)
		b, ok := index[label]
		if !ok {
			b = &monthBucket{
				label:      label,
				likes:      make(map[posts.Platform]int64),
				posts:      make(map[posts.Platform]int64),
				engagement: make(map[posts.Platform]int64),
			}
			index[label] = b
			order = append(order, b)
		}

		b.totalLikes += p.Likes
		b.totalComments += p.Comments
		b.likes[p.Platform] += p.Likes
		b.posts[p.Platform]++
		b.engagement[p.Platform] += p.Likes + p.Comments
	}

	return order
}

func lastWindow(buckets []*monthBucket) []*monthBucket {
	if len(buckets) > TrendWindow {
		return buckets[len(buckets)-TrendWindow:]
	}
	return buckets
}

func likesTrend(buckets []*monthBucket) []TrendRow {
	window := lastWindow(buckets)
	rows := make([]TrendRow, 0, len(window))
	for _, b := range window {
		row := TrendRow{Name: b.label}
		for _, platform := range posts.Platforms {
			row.set(platform, float64(b.likes[platform]))
		}
		rows = append(rows, row)
	}
	return rows
}

func engagementRatioTrend(buckets []*monthBucket) []TrendRow {
	window := lastWindow(buckets)
	rows := make([]TrendRow, 0, len(window))
	for _, b := range window {
		row := TrendRow{Name: b.label}
		for _, platform := range posts.Platforms {
			if n := b.posts[platform]; n > 0 {
				row.set(platform, round2(float64(b.engagement[platform])/float64(n)))
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// growth is the rounded percentage change between the two most recent buckets,
// or 0 when there is no earlier non-zero month to compare against.
func growth(buckets []*monthBucket, value func(*monthBucket) int64) int64 {
	if len(buckets) < 2 {
		return 0
	}

	current := value(buckets[len(buckets)-1])
	previous := value(buckets[len(buckets)-2])
	if previous <= 0 {
		return 0
	}

	return int64(jsRound(float64(current-previous) / float64(previous) * 100))
}

// jsRound rounds half up, matching how the dashboard figures were always rounded.
func jsRound(v float64) float64 {
	return math.Floor(v + 0.5)
}

func round2(v float64) float64 {
	return jsRound(v*100) / 100
}
