// Package extractor turns raw GitHub activity records into the four
// per-domain metric bundles. Every extractor absorbs fetch and computation
// failures at its own boundary and falls back to the zero-valued bundle, so
// callers never see an error from Extract.
package extractor

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-grader/internal/domain"
)

const (
	// recentWindowDays is the lookback for the recent activity count.
	recentWindowDays = 30
	// activeWindowDays is the lookback for the active-days count.
	activeWindowDays = 90
)

// qualifying filters out forked and archived repositories; only the
// remainder contributes to any derived metric.
func qualifying(repos []domain.RepoSummary) []domain.RepoSummary {
	out := make([]domain.RepoSummary, 0, len(repos))
	for _, r := range repos {
		if r.Fork || r.Archived {
			continue
		}
		out = append(out, r)
	}
	return out
}

// commitDay buckets a commit timestamp into its UTC calendar day.
func commitDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func roundTo(v float64, places int) float64 {
	r, err := stats.Round(v, places)
	if err != nil {
		return 0
	}
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
