// Package server exposes each metric extractor as an HTTP service, plus the
// composite grade endpoint on top of them.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/naka-gawa/github-grader/internal/grader"
)

// Server serves the four metric services and the composite grade.
type Server struct {
	grader        *grader.Grader
	activity      grader.ActivityExtractor
	popularity    grader.PopularityExtractor
	codeQuality   grader.CodeQualityExtractor
	collaboration grader.CollaborationExtractor
	logger        *log.Logger
}

// New creates a Server over a grader and its four extractors.
func New(g *grader.Grader, activity grader.ActivityExtractor, popularity grader.PopularityExtractor, codeQuality grader.CodeQualityExtractor, collaboration grader.CollaborationExtractor, logger *log.Logger) *Server {
	return &Server{
		grader:        g,
		activity:      activity,
		popularity:    popularity,
		codeQuality:   codeQuality,
		collaboration: collaboration,
		logger:        logger,
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	// Extractors absorb their own failures, so anything reaching this
	// recovery handler is an escaped programming error; it is surfaced as an
	// internal error with the original detail instead of a silent default.
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Printf("panic serving %s: %v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprint(recovered),
		})
	}))
	r.Use(cors.Default())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.GET("/metrics/activity/:username", s.handleActivity)
	api.GET("/metrics/popularity/:username", s.handlePopularity)
	api.GET("/metrics/code-quality/:username", s.handleCodeQuality)
	api.GET("/metrics/collaboration/:username", s.handleCollaboration)
	api.GET("/grade/:username", s.handleGrade)
	return r
}

// Run starts the HTTP server on addr and blocks until it exits.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *Server) handleActivity(c *gin.Context) {
	c.JSON(http.StatusOK, s.activity.Extract(c.Request.Context(), c.Param("username")))
}

func (s *Server) handlePopularity(c *gin.Context) {
	c.JSON(http.StatusOK, s.popularity.Extract(c.Request.Context(), c.Param("username")))
}

func (s *Server) handleCodeQuality(c *gin.Context) {
	c.JSON(http.StatusOK, s.codeQuality.Extract(c.Request.Context(), c.Param("username")))
}

func (s *Server) handleCollaboration(c *gin.Context) {
	c.JSON(http.StatusOK, s.collaboration.Extract(c.Request.Context(), c.Param("username")))
}

func (s *Server) handleGrade(c *gin.Context) {
	c.JSON(http.StatusOK, s.grader.Grade(c.Request.Context(), c.Param("username")))
}
