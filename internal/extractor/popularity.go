package extractor

import (
	"context"
	"log"

	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/gateway"
)

// PopularityExtractor derives star, watcher and follower metrics for one user.
type PopularityExtractor struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewPopularityExtractor creates a PopularityExtractor.
func NewPopularityExtractor(fetcher gateway.Fetcher, logger *log.Logger) *PopularityExtractor {
	return &PopularityExtractor{fetcher: fetcher, logger: logger}
}

// Extract returns the popularity metrics for user. Any fetch failure
// degrades to the all-zero bundle.
func (e *PopularityExtractor) Extract(ctx context.Context, user string) domain.PopularityMetrics {
	profile, err := e.fetcher.FetchProfile(ctx, user)
	if err != nil {
		e.logger.Printf("popularity: falling back to defaults for %s: %v", user, err)
		return domain.PopularityMetrics{}
	}
	repos, err := e.fetcher.FetchRepos(ctx, user)
	if err != nil {
		e.logger.Printf("popularity: falling back to defaults for %s: %v", user, err)
		return domain.PopularityMetrics{}
	}
	repos = qualifying(repos)

	m := domain.PopularityMetrics{
		Followers: profile.Followers,
		Following: profile.Following,
	}
	for _, r := range repos {
		m.Stars += r.Stars
		m.Watchers += r.Watchers
	}
	if len(repos) > 0 {
		m.AvgStars = roundTo(float64(m.Stars)/float64(len(repos)), 2)
		m.AvgWatchers = roundTo(float64(m.Watchers)/float64(len(repos)), 2)
	}
	return m
}
