package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/llm"
	"github.com/abhinav/readquiz/internal/quiz"
	"github.com/abhinav/readquiz/internal/quizgen"
	"github.com/abhinav/readquiz/internal/store"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <article-id>",
	Short: "Generate a quiz for an article",
	Long:  "Generates and stores a quiz for the given article. If a quiz already exists for the article the existing one is reported instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		articleID := args[0]

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		repo := st.QuizRepo()

		artsDir, err := resolveArticlesDir(cmd)
		if err != nil {
			return fmt.Errorf("resolve articles dir: %w", err)
		}
		arts := articles.NewDirStore(artsDir)

		// Import first when asked, so generate --import works in one step.
		if path, _ := cmd.Flags().GetString("import"); path != "" {
			if err := importArticle(cmd, arts, articleID, path); err != nil {
				return err
			}
		}

		existing, err := repo.QuizzesByArticle(ctx, articleID)
		if err != nil {
			return fmt.Errorf("look up quizzes: %w", err)
		}
		if len(existing) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Quiz %s already exists for article %s (%d questions)\n",
				existing[0].ID, articleID, len(existing[0].Questions))
			return nil
		}

		article, err := arts.GetArticle(ctx, articleID)
		if err != nil {
			return fmt.Errorf("fetch article: %w", err)
		}

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		gen := quizgen.New(provider, quizgen.DefaultConfig())
		generated, err := gen.GenerateQuiz(ctx, *article)
		if err != nil {
			return err
		}
		if err := repo.CreateQuiz(ctx, generated); err != nil {
			return fmt.Errorf("persist quiz: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Generated quiz %s for article %s (%d questions)\n",
			generated.ID, articleID, len(generated.Questions))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("import", "", "Import an article JSON file under the given id before generating")
}

// importArticle copies an article JSON file into the article directory
// under the given id.
func importArticle(cmd *cobra.Command, arts *articles.DirStore, id, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read article file: %w", err)
	}

	var article quiz.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		return fmt.Errorf("parse article file: %w", err)
	}
	article.ID = id

	if err := arts.Put(cmd.Context(), &article); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported article %s from %s\n", id, path)
	return nil
}
