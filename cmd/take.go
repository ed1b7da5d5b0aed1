package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/abhinav/readquiz/internal/articles"
	"github.com/abhinav/readquiz/internal/llm"
	"github.com/abhinav/readquiz/internal/quiz"
	"github.com/abhinav/readquiz/internal/quizgen"
	"github.com/abhinav/readquiz/internal/session"
	"github.com/abhinav/readquiz/internal/store"
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take <article-id>",
	Short: "Take the quiz for an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		articleID := args[0]
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

		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		sess := session.New(
			st.QuizRepo(),
			quizgen.New(provider, quizgen.DefaultConfig()),
			articles.NewDirStore(artsDir),
			userID,
		)

		fmt.Fprintln(cmd.OutOrStdout(), "Loading quiz...")
		if err := sess.Load(ctx, articleID); err != nil {
			return err
		}

		qz := sess.Quiz()
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", qz.Title)

		reader := bufio.NewReader(cmd.InOrStdin())
		total := len(qz.Questions)

		for !sess.IsCompleted() {
			q, err := sess.CurrentQuestion()
			if err != nil {
				return err
			}

			idx := sess.State().QuestionIndex
			fmt.Fprintf(cmd.OutOrStdout(), "Question %d of %d: %s\n", idx+1, total, q.Prompt)
			for _, label := range quiz.Labels {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s) %s\n", label, q.Options[label])
			}

			label, err := readLabel(cmd, reader)
			if err != nil {
				return err
			}
			if err := sess.SelectAnswer(label); err != nil {
				return err
			}
			if _, err := sess.Advance(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}

		score := sess.Score()
		fmt.Fprintf(cmd.OutOrStdout(), "Done! You scored %d/%d (%.0f%%)\n",
			score, total, quiz.ScorePercent(score, total))

		// The score above is authoritative either way; a failed save is
		// reported but doesn't change the result.
		select {
		case err := <-sess.SaveResults():
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
		case <-time.After(5 * time.Second):
			fmt.Fprintln(cmd.ErrOrStderr(), "warning: attempt save still pending")
		}
		return nil
	},
}

func init() {
	takeCmd.Flags().String("user", "local", "User id to record the attempt under")
}

// readLabel prompts until the user enters one of A, B, C, D.
func readLabel(cmd *cobra.Command, reader *bufio.Reader) (quiz.Label, error) {
	for {
		fmt.Fprint(cmd.OutOrStdout(), "Your answer [A-D]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if label, ok := quiz.ParseLabel(strings.ToUpper(strings.TrimSpace(line))); ok {
			return label, nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Please enter A, B, C, or D.")
	}
}
