package cmd

import (
	"fmt"
	"sort"

	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/stats"
	"github.com/abhinav/readquiz/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, _ := cmd.Flags().GetString("user")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		artsDir, err := resolveArticlesDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve articles dir: %w", err)
		}

		agg := stats.New(st.QuizRepo(), stats.ArticleTopics{
			Articles: articles.NewDirStore(artsDir),
		})
		result, err := agg.ComputeStatistics(ctx, userID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Statistics for %s\n", result.UserID)
		fmt.Fprintf(out, "  Quizzes attempted: %d\n", result.TotalAttempted)
		fmt.Fprintf(out, "  Average score:     %.1f%%\n", result.AverageScorePercent)
		fmt.Fprintf(out, "  Completion rate:   %.1f%%\n", result.CompletionRatePercent)

		if len(result.TopicScores) > 0 {
			fmt.Fprintln(out, "  By topic:")
			topics := make([]string, 0, len(result.TopicScores))
			for t := range result.TopicScores {
				topics = append(topics, t)
			}
			sort.Strings(topics)
			for _, t := range topics {
				fmt.Fprintf(out, "    %-20s %.1f%%\n", t, result.TopicScores[t])
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("user", "local", "User id to report on")
}
