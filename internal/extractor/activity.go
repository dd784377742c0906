package extractor

import (
	"context"
	"log"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/gateway"
)

// ActivityExtractor derives commit-frequency metrics for one user.
type ActivityExtractor struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	commitPages int
	now         func() time.Time
}

// NewActivityExtractor creates an ActivityExtractor. commitPages caps how
// many commit pages are sampled per repository.
func NewActivityExtractor(fetcher gateway.Fetcher, logger *log.Logger, commitPages int) *ActivityExtractor {
	return &ActivityExtractor{
		fetcher:     fetcher,
		logger:      logger,
		commitPages: commitPages,
		now:         time.Now,
	}
}

// Extract returns the activity metrics for user. Any fetch failure degrades
// to the all-zero bundle; per-repository failures only skip that repository.
func (e *ActivityExtractor) Extract(ctx context.Context, user string) domain.ActivityMetrics {
	repos, err := e.fetcher.FetchRepos(ctx, user)
	if err != nil {
		e.logger.Printf("activity: falling back to defaults for %s: %v", user, err)
		return domain.ActivityMetrics{}
	}
	repos = qualifying(repos)
	if len(repos) == 0 {
		return domain.ActivityMetrics{}
	}

	var all []domain.Commit
	for _, r := range repos {
		commits, err := e.fetcher.FetchCommits(ctx, user, r.Name, e.commitPages)
		if err != nil {
			e.logger.Printf("activity: skipping %s/%s: %v", user, r.Name, err)
			continue
		}
		all = append(all, commits...)
	}

	now := e.now()
	return domain.ActivityMetrics{
		TotalCommits:        len(all),
		AvgCommitsPerRepo:   roundTo(float64(len(all))/float64(len(repos)), 2),
		RecentActivityScore: countRecentCommits(all, now, recentWindowDays),
		ConsistencyScore:    consistencyScore(all),
		ActiveDays:          countActiveDays(all, now, activeWindowDays),
	}
}

// countRecentCommits counts commits authored within the last `days` days.
// Commits without a parseable timestamp are excluded, never fatal.
func countRecentCommits(commits []domain.Commit, now time.Time, days int) int {
	cutoff := now.AddDate(0, 0, -days)
	n := 0
	for _, c := range commits {
		if c.AuthoredAt != nil && c.AuthoredAt.After(cutoff) {
			n++
		}
	}
	return n
}

// countActiveDays counts distinct calendar days with at least one commit
// within the last `days` days.
func countActiveDays(commits []domain.Commit, now time.Time, days int) int {
	cutoff := now.AddDate(0, 0, -days)
	seen := make(map[time.Time]struct{})
	for _, c := range commits {
		if c.AuthoredAt == nil || !c.AuthoredAt.After(cutoff) {
			continue
		}
		seen[commitDay(*c.AuthoredAt)] = struct{}{}
	}
	return len(seen)
}

// consistencyScore rewards both breadth (many distinct active days relative
// to the date span) and evenness (low variance in daily commit volume).
// Fewer than 7 commits is not enough signal and scores 0.
func consistencyScore(commits []domain.Commit) float64 {
	if len(commits) < 7 {
		return 0
	}

	daily := make(map[time.Time]float64)
	for _, c := range commits {
		if c.AuthoredAt == nil {
			continue
		}
		daily[commitDay(*c.AuthoredAt)]++
	}
	if len(daily) < 2 {
		return 0
	}

	var first, last time.Time
	for day := range daily {
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	span := int(last.Sub(first).Hours()/24) + 1
	if span < 1 {
		span = 1
	}
	activityRate := float64(len(daily)) / float64(span)

	counts := make([]float64, 0, len(daily))
	for _, n := range daily {
		counts = append(counts, n)
	}
	variance, err := stats.PopulationVariance(counts)
	if err != nil {
		return 0
	}
	consistencyFactor := 1 / (1 + variance)

	score := (activityRate*0.7 + consistencyFactor*0.3) * 100
	return roundTo(clamp(score, 0, 100), 2)
}
