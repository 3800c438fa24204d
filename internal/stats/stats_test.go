// SPDX-License-Identifier: AGPL-3.0-only
package stats

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/fluffyriot/postdeck/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(platform posts.Platform, likes, comments int64, created time.Time) posts.Post {
	return posts.Post{
		ID:        fmt.Sprint(created.UnixMilli()),
		Platform:  platform,
		Title:     "t",
		Caption:   "c",
		Likes:     likes,
		Comments:  comments,
		Status:    posts.StatusPublished,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCalculateInstagramScenario(t *testing.T) {
	list := []posts.Post{
		post(posts.Instagram, 100, 10, day(2024, time.January, 15)),
		post(posts.Instagram, 200, 20, day(2024, time.February, 15)),
	}

	s := Calculate(list, time.UTC)

	ig := s.ByPlatform[posts.Instagram]
	assert.Equal(t, int64(2), ig.Posts)
	assert.Equal(t, int64(300), ig.Likes)
	assert.Equal(t, int64(30), ig.Comments)
	assert.Equal(t, 150.0, ig.AverageLikes)
	assert.Equal(t, 15.0, ig.AverageComments)
	assert.Equal(t, 165.0, ig.AverageEngagement)
	assert.Equal(t, "Instagram", ig.Label)

	require.Len(t, s.LikesByPlatformTrend, 2)
	assert.Equal(t, TrendRow{Name: "jan. 2024", Instagram: 100}, s.LikesByPlatformTrend[0])
	assert.Equal(t, TrendRow{Name: "fev. 2024", Instagram: 200}, s.LikesByPlatformTrend[1])

	require.Len(t, s.EngagementRatioTrend, 2)
	assert.Equal(t, 110.0, s.EngagementRatioTrend[0].Instagram)
	assert.Equal(t, 220.0, s.EngagementRatioTrend[1].Instagram)

	assert.Equal(t, int64(100), s.LikesGrowth)
	assert.Equal(t, 165.0, s.AverageEngagementRatio)
	assert.Equal(t, int64(150), s.AverageLikesPerPost)
	assert.Equal(t, int64(15), s.AverageCommentsPerPost)
}

func TestCalculatePlatformSumsMatchTotals(t *testing.T) {
	var list []posts.Post
	for i := 0; i < 40; i++ {
		platform := posts.Platforms[i%len(posts.Platforms)]
		list = append(list, post(platform, int64(i*7), int64(i*3), day(2024, time.Month(i%12+1), 1)))
	}

	s := Calculate(list, time.UTC)

	var likes, comments, count int64
	for _, platform := range posts.Platforms {
		ps := s.ByPlatform[platform]
		assert.LessOrEqual(t, ps.Likes, s.TotalLikes)
		likes += ps.Likes
		comments += ps.Comments
		count += ps.Posts
	}
	assert.Equal(t, s.TotalLikes, likes)
	assert.Equal(t, s.TotalComments, comments)
	assert.Equal(t, s.TotalPosts, count)
}

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil, time.UTC)

	assert.Zero(t, s.TotalPosts)
	assert.Zero(t, s.AverageEngagementRatio)
	assert.Zero(t, s.LikesGrowth)
	assert.Zero(t, s.CommentsGrowth)
	assert.Empty(t, s.LikesByPlatformTrend)
	require.Len(t, s.EngagementRatioByPlatform, 4)
	for _, r := range s.EngagementRatioByPlatform {
		assert.Zero(t, r.Ratio)
	}

	_, err := json.Marshal(s)
	require.NoError(t, err)
}

func TestEngagementRatioGuardsZeroAverage(t *testing.T) {
	list := []posts.Post{post(posts.TikTok, 0, 0, day(2024, time.March, 1))}

	s := Calculate(list, time.UTC)

	assert.Zero(t, s.AverageEngagementRatio)
	for _, r := range s.EngagementRatioByPlatform {
		assert.Zero(t, r.Ratio, r.Name)
	}
	_, err := json.Marshal(s)
	require.NoError(t, err)
}

func TestEngagementRatioByPlatformIsRelativeToGlobalAverage(t *testing.T) {
	list := []posts.Post{
		post(posts.Instagram, 300, 0, day(2024, time.January, 1)),
		post(posts.Facebook, 100, 0, day(2024, time.January, 2)),
	}

	s := Calculate(list, time.UTC)

	require.Len(t, s.EngagementRatioByPlatform, 4)
	assert.Equal(t, RatioPoint{Name: "Instagram", Ratio: 1.5, Fill: "hsl(328, 100%, 54%)"}, s.EngagementRatioByPlatform[0])
	assert.Equal(t, RatioPoint{Name: "Facebook", Ratio: 0.5, Fill: "hsl(221, 83%, 53%)"}, s.EngagementRatioByPlatform[1])
	assert.Equal(t, 0.0, s.EngagementRatioByPlatform[2].Ratio)
}

func TestStackedByPlatform(t *testing.T) {
	list := []posts.Post{
		post(posts.LinkedIn, 5, 2, day(2024, time.January, 1)),
		post(posts.LinkedIn, 7, 1, day(2024, time.January, 3)),
	}

	s := Calculate(list, time.UTC)

	require.Len(t, s.LikesCommentsStackedByPlatform, 4)
	assert.Equal(t, StackedPoint{Name: "LinkedIn", Likes: 12, Comments: 3}, s.LikesCommentsStackedByPlatform[3])
	assert.Equal(t, StackedPoint{Name: "TikTok"}, s.LikesCommentsStackedByPlatform[2])
}

func TestTrendKeepsLastTwelveMonths(t *testing.T) {
	var list []posts.Post
	start := day(2022, time.January, 10)
	for i := 0; i < 24; i++ {
		list = append(list, post(posts.Facebook, int64(i+1), 0, start.AddDate(0, i, 0)))
	}

	s := Calculate(list, time.UTC)

	require.Len(t, s.LikesByPlatformTrend, TrendWindow)
	require.Len(t, s.EngagementRatioTrend, TrendWindow)
	assert.Equal(t, "jan. 2023", s.LikesByPlatformTrend[0].Name)
	assert.Equal(t, 13.0, s.LikesByPlatformTrend[0].Facebook)
	assert.Equal(t, "dez. 2023", s.LikesByPlatformTrend[11].Name)
}

func TestTrendUsesEncounterOrder(t *testing.T) {
	list := []posts.Post{
		post(posts.Instagram, 10, 0, day(2024, time.March, 1)),
		post(posts.Instagram, 20, 0, day(2024, time.January, 1)),
		post(posts.Instagram, 5, 0, day(2024, time.March, 20)),
	}

	s := Calculate(list, time.UTC)

	require.Len(t, s.LikesByPlatformTrend, 2)
	assert.Equal(t, "mar. 2024", s.LikesByPlatformTrend[0].Name)
	assert.Equal(t, 15.0, s.LikesByPlatformTrend[0].Instagram)
	assert.Equal(t, "jan. 2024", s.LikesByPlatformTrend[1].Name)
}

func TestMonthBucketsUseLocation(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	list := []posts.Post{
		post(posts.Instagram, 1, 0, time.Date(2024, time.February, 1, 1, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, "jan. 2024", Calculate(list, brt).LikesByPlatformTrend[0].Name)
	assert.Equal(t, "fev. 2024", Calculate(list, time.UTC).LikesByPlatformTrend[0].Name)
}

func TestPostsWithoutCreationTimeAreLeftOutOfTrends(t *testing.T) {
	list := []posts.Post{
		post(posts.Instagram, 10, 1, day(2024, time.May, 1)),
		{ID: "x", Platform: posts.Instagram, Likes: 99},
	}

	s := Calculate(list, time.UTC)

	assert.Equal(t, int64(2), s.TotalPosts)
	assert.Equal(t, int64(109), s.TotalLikes)
	require.Len(t, s.LikesByPlatformTrend, 1)
	assert.Equal(t, 10.0, s.LikesByPlatformTrend[0].Instagram)
}

func TestGrowth(t *testing.T) {
	tests := []struct {
		name     string
		likes    []int64
		comments []int64
		want     int64
		wantCmt  int64
	}{
		{name: "single month", likes: []int64{100}, comments: []int64{10}, want: 0, wantCmt: 0},
		{name: "increase", likes: []int64{100, 150}, comments: []int64{10, 5}, want: 50, wantCmt: -50},
		{name: "previous zero", likes: []int64{0, 150}, comments: []int64{0, 3}, want: 0, wantCmt: 0},
		{name: "only last two count", likes: []int64{1, 200, 100}, comments: []int64{1, 1, 1}, want: -50, wantCmt: 0},
		{name: "rounds half up", likes: []int64{8, 9}, comments: []int64{8, 7}, want: 13, wantCmt: -12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var list []posts.Post
			for i := range tt.likes {
				list = append(list, post(posts.Instagram, tt.likes[i], tt.comments[i], day(2024, time.Month(i+1), 5)))
			}

			s := Calculate(list, time.UTC)

			assert.Equal(t, tt.want, s.LikesGrowth)
			assert.Equal(t, tt.wantCmt, s.CommentsGrowth)
		})
	}
}

// Comments growth is computed from the comments series on its own rather than
// mirroring likes growth.
func TestCommentsGrowthIsIndependentOfLikes(t *testing.T) {
	list := []posts.Post{
		post(posts.Facebook, 100, 40, day(2024, time.January, 1)),
		post(posts.Facebook, 150, 10, day(2024, time.February, 1)),
	}

	s := Calculate(list, time.UTC)

	assert.Equal(t, int64(50), s.LikesGrowth)
	assert.Equal(t, int64(-75), s.CommentsGrowth)
	assert.NotEqual(t, s.LikesGrowth, s.CommentsGrowth)
}
