package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/grader"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type (
	stubActivity      struct{ m domain.ActivityMetrics }
	stubPopularity    struct{ m domain.PopularityMetrics }
	stubCodeQuality   struct{ m domain.CodeQualityMetrics }
	stubCollaboration struct{ m domain.CollaborationMetrics }
	panicActivity     struct{}
)

func (s stubActivity) Extract(context.Context, string) domain.ActivityMetrics { return s.m }
func (s stubPopularity) Extract(context.Context, string) domain.PopularityMetrics {
	return s.m
}
func (s stubCodeQuality) Extract(context.Context, string) domain.CodeQualityMetrics {
	return s.m
}
func (s stubCollaboration) Extract(context.Context, string) domain.CollaborationMetrics {
	return s.m
}
func (panicActivity) Extract(context.Context, string) domain.ActivityMetrics {
	panic("activity extractor wiring broken")
}

func newTestServer(activity grader.ActivityExtractor) *Server {
	logger := log.New(io.Discard, "", 0)
	popularity := stubPopularity{domain.PopularityMetrics{Stars: 10, AvgStars: 5, Followers: 3}}
	codeQuality := stubCodeQuality{domain.CodeQualityMetrics{
		PrimaryLanguages:          map[string]int64{"Go": 100},
		CommitMessageQualityScore: 60,
		LanguageDiversityScore:    1,
	}}
	collaboration := stubCollaboration{domain.CollaborationMetrics{TotalPRs: 2, MergedPRs: 2, PRMergeRate: 1}}
	g := grader.New(activity, popularity, codeQuality, collaboration, logger)
	return New(g, activity, popularity, codeQuality, collaboration, logger)
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestServer_MetricEndpoints(t *testing.T) {
	activity := stubActivity{domain.ActivityMetrics{TotalCommits: 45, AvgCommitsPerRepo: 15, ConsistencyScore: 79.23}}
	router := newTestServer(activity).Router()

	t.Run("activity", func(t *testing.T) {
		rec := doRequest(t, router, "/api/v1/metrics/activity/alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var m domain.ActivityMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, activity.m, m)
	})

	t.Run("popularity", func(t *testing.T) {
		rec := doRequest(t, router, "/api/v1/metrics/popularity/alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var m domain.PopularityMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, 10, m.Stars)
	})

	t.Run("code quality", func(t *testing.T) {
		rec := doRequest(t, router, "/api/v1/metrics/code-quality/alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var m domain.CodeQualityMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, map[string]int64{"Go": 100}, m.PrimaryLanguages)
	})

	t.Run("collaboration", func(t *testing.T) {
		rec := doRequest(t, router, "/api/v1/metrics/collaboration/alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var m domain.CollaborationMetrics
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, 1.0, m.PRMergeRate)
	})

	t.Run("grade", func(t *testing.T) {
		rec := doRequest(t, router, "/api/v1/grade/alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var result domain.GradeResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, grader.LetterGrade(result.TotalScore), result.Grade)
		assert.Len(t, result.Breakdown, 4)
	})

	t.Run("health", func(t *testing.T) {
		rec := doRequest(t, router, "/health")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_PanicBackstop(t *testing.T) {
	router := newTestServer(panicActivity{}).Router()

	rec := doRequest(t, router, "/api/v1/metrics/activity/alice")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "activity extractor wiring broken")
}

func TestClient_RoundTrip(t *testing.T) {
	activity := stubActivity{domain.ActivityMetrics{TotalCommits: 45, RecentActivityScore: 12, ActiveDays: 9}}
	srv := httptest.NewServer(newTestServer(activity).Router())
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := context.Background()

	got, err := client.GetActivityData(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, activity.m, got)

	pop, err := client.GetPopularityData(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, pop.Followers)

	cq, err := client.GetCodeQualityData(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 60.0, cq.CommitMessageQualityScore)

	collab, err := client.GetCollaborationData(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, collab.TotalPRs)
}

func TestClient_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(newTestServer(panicActivity{}).Router())
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetActivityData(context.Background(), "alice")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.GetActivityData(context.Background(), "alice")
	assert.Error(t, err)
}
