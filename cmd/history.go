package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemmaster/chemmaster/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetString("user")
		if user == "" && !cmd.Flags().Changed("all") {
			if user, err = e.profile().Load(ctx); err != nil {
				return err
			}
		}

		results, err := e.store.EventRepo().QueryQuizResults(ctx, user, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		w := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(w, "No quiz results found.")
			return nil
		}

		fmt.Fprintf(w, "%-16s  %-16s  %-20s  %6s  %7s  %s\n",
			"Date", "Name", "Topic", "Score", "Correct", "")
		fmt.Fprintln(w, rule(82))
		for _, r := range results {
			topic := r.Topic
			if topic == "" {
				topic = "Tổng hợp"
			}
			note := ""
			if r.TimedOut {
				note = "timeout"
			}
			fmt.Fprintf(w, "%-16s  %-16s  %-20s  %6d  %3d/%-3d  %s\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.UserName, 16),
				truncate(topic, 20),
				r.Score, r.CorrectAnswers, r.TotalQuestions, note)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyCmd.Flags().StringP("user", "u", "", "Student name (default: the logged-in student)")
	historyCmd.Flags().Bool("all", false, "Show every student")
}
