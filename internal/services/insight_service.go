package services

import (
	"sort"
	"strings"
	"time"

	"github.com/scenestack/scenestack/internal/repositories"
)

// InsightService 观影洞察服务
// Aggregates a user's watch history into browsable insights. Everything here
// is derived from SQL aggregation plus a little in-memory shaping; there is
// no external model behind it.
type InsightService struct {
	insightRepo *repositories.InsightRepository
	groupRepo   *repositories.GroupRepository
}

// NewInsightService 创建洞察服务实例
func NewInsightService(insightRepo *repositories.InsightRepository, groupRepo *repositories.GroupRepository) *InsightService {
	return &InsightService{
		insightRepo: insightRepo,
		groupRepo:   groupRepo,
	}
}

// GenreCount 题材统计
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// MonthCount 月度统计
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// UserInsights 用户观影洞察
type UserInsights struct {
	TotalWatches  int                         `json:"total_watches"`
	TopGenres     []GenreCount                `json:"top_genres"`
	MostWatched   []repositories.MovieCount   `json:"most_watched"`
	Monthly       []MonthCount                `json:"monthly"`
	LongestStreak int                         `json:"longest_streak_days"`
	Rating        *repositories.RatingSummary `json:"rating"`
}

// ForUser 计算用户的观影洞察
func (s *InsightService) ForUser(userID uint) (*UserInsights, error) {
	dates, err := s.insightRepo.UserWatchDates(userID)
	if err != nil {
		return nil, err
	}
	genreStrings, err := s.insightRepo.UserGenreStrings(userID)
	if err != nil {
		return nil, err
	}
	mostWatched, err := s.insightRepo.MostWatched(userID, 5)
	if err != nil {
		return nil, err
	}
	rating, err := s.insightRepo.UserRatingSummary(userID)
	if err != nil {
		return nil, err
	}

	return &UserInsights{
		TotalWatches:  len(dates),
		TopGenres:     topGenres(genreStrings, 5),
		MostWatched:   mostWatched,
		Monthly:       monthlyCounts(dates),
		LongestStreak: longestStreak(dates),
		Rating:        rating,
	}, nil
}

// GroupLeaderboard 获取群组共享排行（调用者必须是成员）
func (s *InsightService) GroupLeaderboard(userID, groupID uint, limit int) ([]repositories.MemberCount, error) {
	if _, err := s.groupRepo.GetMember(groupID, userID); err != nil {
		return nil, ErrNotMember
	}
	return s.insightRepo.GroupLeaderboard(groupID, limit)
}

// topGenres splits comma separated genre strings and tallies them.
func topGenres(genreStrings []string, limit int) []GenreCount {
	counts := make(map[string]int)
	for _, gs := range genreStrings {
		for _, genre := range strings.Split(gs, ",") {
			genre = strings.TrimSpace(strings.ToLower(genre))
			if genre == "" {
				continue
			}
			counts[genre]++
		}
	}

	result := make([]GenreCount, 0, len(counts))
	for genre, count := range counts {
		result = append(result, GenreCount{Genre: genre, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Genre < result[j].Genre
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// monthlyCounts buckets watch dates by calendar month.
func monthlyCounts(dates []time.Time) []MonthCount {
	counts := make(map[string]int)
	for _, d := range dates {
		counts[d.Format("2006-01")]++
	}

	result := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		result = append(result, MonthCount{Month: month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result
}

// longestStreak finds the longest run of consecutive watch days.
// Multiple watches on one day count once.
func longestStreak(dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[string]bool)
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := d.Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}
