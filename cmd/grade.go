// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-grader/internal/config"
	"github.com/naka-gawa/github-grader/internal/extractor"
	"github.com/naka-gawa/github-grader/internal/gateway"
	"github.com/naka-gawa/github-grader/internal/grader"
)

var gradeCmd = &cobra.Command{
	Use:   "grade [username]",
	Short: "Fetches a user's GitHub activity and prints their grade as JSON",
	Long: `Runs the full grading pipeline locally: fetches the user's repositories,
commits, pull requests, issues and languages, derives the four metric
bundles concurrently, and prints the composite GradeResult as JSON.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}

		fetcher, err := gateway.NewGitHubGateway(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		g := grader.New(
			extractor.NewActivityExtractor(fetcher, logger, cfg.CommitPages),
			extractor.NewPopularityExtractor(fetcher, logger),
			extractor.NewCodeQualityExtractor(fetcher, logger, cfg.CommitPages),
			extractor.NewCollaborationExtractor(fetcher, logger),
			logger,
		)
		result := g.Grade(ctx, args[0])

		// Marshal the result into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal result to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(gradeCmd)
}
