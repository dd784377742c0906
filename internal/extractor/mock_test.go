package extractor

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-grader/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making
// real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRepos(ctx context.Context, user string) ([]domain.RepoSummary, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepoSummary), args.Error(1)
}

func (m *mockFetcher) FetchCommits(ctx context.Context, owner, repo string, maxPages int) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) FetchLanguages(ctx context.Context, owner, repo string) (map[string]int64, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockFetcher) FetchPullRequests(ctx context.Context, owner, repo string) ([]domain.PullRequest, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) FetchIssues(ctx context.Context, owner, repo string) ([]domain.Issue, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockFetcher) FetchProfile(ctx context.Context, user string) (domain.Profile, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.Profile), args.Error(1)
}
