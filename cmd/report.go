// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-grader/internal/config"
	"github.com/naka-gawa/github-grader/internal/domain"
	"github.com/naka-gawa/github-grader/internal/grader"
	"github.com/naka-gawa/github-grader/internal/server"
)

var reportCmd = &cobra.Command{
	Use:   "report [username]",
	Short: "Builds a grade report from a running metric service server",
	Long: `Calls all four metric services of a running github-grader server
concurrently, computes the composite grade from the four bundles, and prints
a formatted report. If any service call fails, the whole report is aborted;
no partial report is printed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		serverURL, _ := cmd.Flags().GetString("server")
		if serverURL == "" {
			serverURL = cfg.ServerURL
		}
		client := server.NewClient(serverURL)
		username := args[0]

		var (
			activity      domain.ActivityMetrics
			popularity    domain.PopularityMetrics
			codeQuality   domain.CodeQualityMetrics
			collaboration domain.CollaborationMetrics
		)

		// Use an errgroup to issue the four service calls concurrently; the
		// first failure cancels the rest and aborts the report.
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			var err error
			activity, err = client.GetActivityData(egCtx, username)
			return err
		})
		eg.Go(func() error {
			var err error
			popularity, err = client.GetPopularityData(egCtx, username)
			return err
		})
		eg.Go(func() error {
			var err error
			codeQuality, err = client.GetCodeQualityData(egCtx, username)
			return err
		})
		eg.Go(func() error {
			var err error
			collaboration, err = client.GetCollaborationData(egCtx, username)
			return err
		})
		if err := eg.Wait(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch metrics: %v\n", err)
			os.Exit(1)
		}

		result := grader.Compose(activity, popularity, codeQuality, collaboration)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			out := struct {
				Username      string                      `json:"username"`
				Activity      domain.ActivityMetrics      `json:"activity"`
				Popularity    domain.PopularityMetrics    `json:"popularity"`
				CodeQuality   domain.CodeQualityMetrics   `json:"code_quality"`
				Collaboration domain.CollaborationMetrics `json:"collaboration"`
				Result        domain.GradeResult          `json:"result"`
			}{username, activity, popularity, codeQuality, collaboration, result}
			jsonData, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to marshal report to JSON: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(jsonData))
			return
		}

		printReport(os.Stdout, username, activity, popularity, codeQuality, collaboration, result)
	},
}

func printReport(w io.Writer, username string, activity domain.ActivityMetrics, popularity domain.PopularityMetrics, codeQuality domain.CodeQualityMetrics, collaboration domain.CollaborationMetrics, result domain.GradeResult) {
	fmt.Fprintf(w, "GitHub grade report for %s\n\n", username)

	fmt.Fprintln(w, "Activity")
	fmt.Fprintf(w, "  total commits:          %d\n", activity.TotalCommits)
	fmt.Fprintf(w, "  avg commits per repo:   %.2f\n", activity.AvgCommitsPerRepo)
	fmt.Fprintf(w, "  commits last 30 days:   %d\n", activity.RecentActivityScore)
	fmt.Fprintf(w, "  consistency score:      %.2f\n", activity.ConsistencyScore)
	fmt.Fprintf(w, "  active days (90d):      %d\n", activity.ActiveDays)

	fmt.Fprintln(w, "Popularity")
	fmt.Fprintf(w, "  stars:                  %d (avg %.2f)\n", popularity.Stars, popularity.AvgStars)
	fmt.Fprintf(w, "  watchers:               %d (avg %.2f)\n", popularity.Watchers, popularity.AvgWatchers)
	fmt.Fprintf(w, "  followers/following:    %d/%d\n", popularity.Followers, popularity.Following)

	fmt.Fprintln(w, "Code quality")
	fmt.Fprintf(w, "  message quality score:  %.2f\n", codeQuality.CommitMessageQualityScore)
	fmt.Fprintf(w, "  languages:              %d\n", codeQuality.LanguageDiversityScore)
	fmt.Fprintf(w, "  avg additions/commit:   %.2f\n", codeQuality.AvgAdditionsPerCommit)
	fmt.Fprintf(w, "  avg deletions/commit:   %.2f\n", codeQuality.AvgDeletionsPerCommit)

	fmt.Fprintln(w, "Collaboration")
	fmt.Fprintf(w, "  pull requests:          %d (%d merged, rate %.3f)\n", collaboration.TotalPRs, collaboration.MergedPRs, collaboration.PRMergeRate)
	fmt.Fprintf(w, "  issues:                 %d (%d closed, rate %.3f)\n", collaboration.TotalIssues, collaboration.ClosedIssues, collaboration.IssueCloseRate)
	fmt.Fprintf(w, "  avg PR size:            %.2f\n", collaboration.AvgPRSize)
	fmt.Fprintf(w, "  community engagement:   %.1f\n", collaboration.CommunityEngagementScore)

	fmt.Fprintln(w, "\nBreakdown")
	for _, name := range []string{"activity", "popularity", "code_quality", "collaboration"} {
		fmt.Fprintf(w, "  %-14s %6.2f\n", name, result.Breakdown[name])
	}
	fmt.Fprintf(w, "\nTotal score: %.2f  Grade: %s\n", result.TotalScore, result.Grade)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("server", "", "Base URL of a running github-grader server (defaults to GRADER_SERVER_URL)")
	reportCmd.Flags().Bool("json", false, "Print the report as JSON instead of formatted text")
}
