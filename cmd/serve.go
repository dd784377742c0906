// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-grader/internal/config"
	"github.com/naka-gawa/github-grader/internal/extractor"
	"github.com/naka-gawa/github-grader/internal/gateway"
	"github.com/naka-gawa/github-grader/internal/grader"
	"github.com/naka-gawa/github-grader/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the metric service HTTP server",
	Long: `Starts an HTTP server exposing each metric bundle as its own service
(one endpoint per extractor) plus a composite grade endpoint. The report
command consumes these services.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		activity := extractor.NewActivityExtractor(fetcher, logger, cfg.CommitPages)
		popularity := extractor.NewPopularityExtractor(fetcher, logger)
		codeQuality := extractor.NewCodeQualityExtractor(fetcher, logger, cfg.CommitPages)
		collaboration := extractor.NewCollaborationExtractor(fetcher, logger)
		g := grader.New(activity, popularity, codeQuality, collaboration, logger)

		srv := server.New(g, activity, popularity, codeQuality, collaboration, logger)
		fmt.Printf("github-grader server listening on %s\n", cfg.ListenAddr)
		if err := srv.Run(cfg.ListenAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
