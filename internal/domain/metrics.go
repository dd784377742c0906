// Package domain contains the core data structures for the grading engine.
package domain

import "time"

// Commit is a single commit snapshot fetched from GitHub. AuthoredAt is nil
// when the API response carried no parseable author date.
type Commit struct {
	SHA        string
	Message    string
	Additions  int
	Deletions  int
	AuthoredAt *time.Time
}

// PullRequest is a pull request snapshot. Merged reflects the API's merged
// flag; the list endpoint often omits it, which is why the collaboration
// metrics also treat closed PRs as merged.
type PullRequest struct {
	State     string
	Merged    bool
	Additions int
	Deletions int
	Comments  int
}

// Issue is an issue snapshot. Records that are actually pull requests are
// filtered out at the gateway.
type Issue struct {
	State    string
	Comments int
}

// RepoSummary describes one repository owned by the graded user.
// Forked and archived repositories are excluded from every derived metric.
type RepoSummary struct {
	Name     string
	Language string
	Stars    int
	Watchers int
	Fork     bool
	Archived bool
}

// Profile holds the user-level social counts.
type Profile struct {
	Followers int
	Following int
}

// ActivityMetrics captures commit-frequency patterns for one user.
type ActivityMetrics struct {
	TotalCommits        int     `json:"total_commits"`
	AvgCommitsPerRepo   float64 `json:"avg_commits_per_repo"`
	RecentActivityScore int     `json:"recent_activity_score"`
	ConsistencyScore    float64 `json:"consistency_score"`
	ActiveDays          int     `json:"active_days"`
}

// PopularityMetrics captures star, watcher and follower counts.
type PopularityMetrics struct {
	Stars       int     `json:"stars"`
	AvgStars    float64 `json:"avg_stars"`
	Watchers    int     `json:"watchers"`
	AvgWatchers float64 `json:"avg_watchers"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
}

// CodeQualityMetrics captures language distribution and commit hygiene.
type CodeQualityMetrics struct {
	PrimaryLanguages          map[string]int64 `json:"primary_languages"`
	CommitMessageQualityScore float64          `json:"commit_message_quality_score"`
	AvgAdditionsPerCommit     float64          `json:"avg_additions_per_commit"`
	AvgDeletionsPerCommit     float64          `json:"avg_deletions_per_commit"`
	LanguageDiversityScore    int              `json:"language_diversity_score"`
}

// CollaborationMetrics captures pull request and issue engagement.
type CollaborationMetrics struct {
	TotalPRs                 int     `json:"total_prs"`
	MergedPRs                int     `json:"merged_prs"`
	PRMergeRate              float64 `json:"pr_merge_rate"`
	TotalIssues              int     `json:"total_issues"`
	ClosedIssues             int     `json:"closed_issues"`
	IssueCloseRate           float64 `json:"issue_close_rate"`
	AvgPRSize                float64 `json:"avg_pr_size"`
	CommunityEngagementScore float64 `json:"community_engagement_score"`
}

// GradeResult is the final composite output for one username. Breakdown maps
// each domain name to its rounded 0-100 sub-score.
type GradeResult struct {
	TotalScore float64            `json:"total_score"`
	Grade      string             `json:"grade"`
	Breakdown  map[string]float64 `json:"breakdown"`
}
