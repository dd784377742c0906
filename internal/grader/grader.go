package grader

import (
	"context"
	"log"
	"sync"

	"github.com/naka-gawa/github-grader/internal/domain"
)

// The four extractor dependencies. Extract never returns an error: each
// extractor absorbs failures at its own boundary and yields its zero bundle
// instead, which is why Grade has no error channel of its own.
type (
	// ActivityExtractor produces the activity metric bundle for a user.
	ActivityExtractor interface {
		Extract(ctx context.Context, user string) domain.ActivityMetrics
	}
	// PopularityExtractor produces the popularity metric bundle for a user.
	PopularityExtractor interface {
		Extract(ctx context.Context, user string) domain.PopularityMetrics
	}
	// CodeQualityExtractor produces the code quality metric bundle for a user.
	CodeQualityExtractor interface {
		Extract(ctx context.Context, user string) domain.CodeQualityMetrics
	}
	// CollaborationExtractor produces the collaboration metric bundle for a user.
	CollaborationExtractor interface {
		Extract(ctx context.Context, user string) domain.CollaborationMetrics
	}
)

// Grader fans out to the four extractors and combines their bundles into a
// composite grade.
type Grader struct {
	activity      ActivityExtractor
	popularity    PopularityExtractor
	codeQuality   CodeQualityExtractor
	collaboration CollaborationExtractor
	logger        *log.Logger
}

// New creates a Grader over the four extractors.
func New(activity ActivityExtractor, popularity PopularityExtractor, codeQuality CodeQualityExtractor, collaboration CollaborationExtractor, logger *log.Logger) *Grader {
	return &Grader{
		activity:      activity,
		popularity:    popularity,
		codeQuality:   codeQuality,
		collaboration: collaboration,
		logger:        logger,
	}
}

// Grade runs the four extractors concurrently, waits for all of them, and
// composes their bundles into the final GradeResult. The extractors share no
// state, so no locking is needed; partial results are never combined.
func (g *Grader) Grade(ctx context.Context, user string) domain.GradeResult {
	g.logger.Printf("Grading %s...", user)

	var (
		activity      domain.ActivityMetrics
		popularity    domain.PopularityMetrics
		codeQuality   domain.CodeQualityMetrics
		collaboration domain.CollaborationMetrics
	)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		activity = g.activity.Extract(ctx, user)
	}()
	go func() {
		defer wg.Done()
		popularity = g.popularity.Extract(ctx, user)
	}()
	go func() {
		defer wg.Done()
		codeQuality = g.codeQuality.Extract(ctx, user)
	}()
	go func() {
		defer wg.Done()
		collaboration = g.collaboration.Extract(ctx, user)
	}()
	wg.Wait()

	result := Compose(activity, popularity, codeQuality, collaboration)
	g.logger.Printf("Graded %s: %s (%.2f)", user, result.Grade, result.TotalScore)
	return result
}
