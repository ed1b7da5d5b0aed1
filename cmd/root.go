package cmd

import (
	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "readquiz",
	Short: "AI quizzes from articles",
	Long:  "readquiz generates five-question multiple-choice quizzes from long-form articles, scores your attempts, and tracks your statistics.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides READQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("articles", "", "Path to article directory (overrides READQUIZ_ARTICLES env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then READQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveArticlesDir returns the article directory using --articles,
// then READQUIZ_ARTICLES, then the default XDG path.
func resolveArticlesDir(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("articles"); p != "" {
		return p, nil
	}
	return articles.DefaultDir()
}
