package extractor

import (
	"context"
	"log"

	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/gateway"
)

// CollaborationExtractor derives pull request and issue engagement metrics
// for one user.
type CollaborationExtractor struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollaborationExtractor creates a CollaborationExtractor.
func NewCollaborationExtractor(fetcher gateway.Fetcher, logger *log.Logger) *CollaborationExtractor {
	return &CollaborationExtractor{fetcher: fetcher, logger: logger}
}

// countsAsMerged reports whether a PR counts as merged for the merge rate.
// Closed-but-unmerged PRs count as merged under this policy; the list
// endpoint does not reliably carry the merged flag.
func countsAsMerged(pr domain.PullRequest) bool {
	return pr.Merged || pr.State == "closed"
}

// Extract returns the collaboration metrics for user. Any fetch failure
// degrades to the all-zero bundle; per-repository failures only skip that
// repository's contribution.
func (e *CollaborationExtractor) Extract(ctx context.Context, user string) domain.CollaborationMetrics {
	repos, err := e.fetcher.FetchRepos(ctx, user)
	if err != nil {
		e.logger.Printf("collaboration: falling back to defaults for %s: %v", user, err)
		return domain.CollaborationMetrics{}
	}
	repos = qualifying(repos)
	if len(repos) == 0 {
		return domain.CollaborationMetrics{}
	}

	var m domain.CollaborationMetrics
	var sizeSum, sized, comments int

	for _, r := range repos {
		prs, err := e.fetcher.FetchPullRequests(ctx, user, r.Name)
		if err != nil {
			e.logger.Printf("collaboration: no pull requests for %s/%s: %v", user, r.Name, err)
		}
		for _, pr := range prs {
			m.TotalPRs++
			if countsAsMerged(pr) {
				m.MergedPRs++
			}
			if size := pr.Additions + pr.Deletions; size > 0 {
				sizeSum += size
				sized++
			}
			comments += pr.Comments
		}

		issues, err := e.fetcher.FetchIssues(ctx, user, r.Name)
		if err != nil {
			e.logger.Printf("collaboration: no issues for %s/%s: %v", user, r.Name, err)
		}
		for _, issue := range issues {
			m.TotalIssues++
			if issue.State == "closed" {
				m.ClosedIssues++
			}
			comments += issue.Comments
		}
	}

	if m.TotalPRs > 0 {
		m.PRMergeRate = roundTo(float64(m.MergedPRs)/float64(m.TotalPRs), 3)
	}
	if m.TotalIssues > 0 {
		m.IssueCloseRate = roundTo(float64(m.ClosedIssues)/float64(m.TotalIssues), 3)
	}
	if sized > 0 {
		m.AvgPRSize = roundTo(float64(sizeSum)/float64(sized), 2)
	}
	m.CommunityEngagementScore = roundTo(float64(comments)/float64(len(repos)), 1)
	return m
}

// CollaborationQualityScore combines a collaboration bundle into a single
// 0-100 helper score via threshold ladders on merge rate, close rate,
// activity volume and community engagement.
func CollaborationQualityScore(m domain.CollaborationMetrics) float64 {
	score := 0.0

	switch {
	case m.PRMergeRate >= 0.8:
		score += 30
	case m.PRMergeRate >= 0.6:
		score += 25
	case m.PRMergeRate >= 0.4:
		score += 20
	case m.PRMergeRate > 0:
		score += 10
	}

	switch {
	case m.IssueCloseRate >= 0.8:
		score += 25
	case m.IssueCloseRate >= 0.6:
		score += 20
	case m.IssueCloseRate >= 0.4:
		score += 15
	case m.IssueCloseRate > 0:
		score += 10
	}

	switch activity := m.TotalPRs + m.TotalIssues; {
	case activity >= 50:
		score += 25
	case activity >= 20:
		score += 20
	case activity >= 10:
		score += 15
	case activity >= 5:
		score += 10
	case activity > 0:
		score += 5
	}

	switch {
	case m.CommunityEngagementScore >= 10:
		score += 20
	case m.CommunityEngagementScore >= 5:
		score += 15
	case m.CommunityEngagementScore >= 2:
		score += 10
	case m.CommunityEngagementScore > 0:
		score += 5
	}

	return roundTo(clamp(score, 0, 100), 2)
}
