package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/chemmaster/chemmaster/internal/leaderboard"
	"github.com/chemmaster/chemmaster/internal/store"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the top scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.board().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load leaderboard: %w", err)
		}
		printLeaderboard(cmd.OutOrStdout(), entries)
		return nil
	},
}

var leaderboardExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the leaderboard as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.board().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load leaderboard: %w", err)
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "-" {
			return leaderboard.WriteCSV(cmd.OutOrStdout(), entries)
		}
		if out == "" {
			dir, err := store.DataDir()
			if err != nil {
				return err
			}
			out = filepath.Join(dir, leaderboard.FileName(time.Now()))
		}
		if err := store.EnsureDir(out); err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := leaderboard.WriteCSV(f, entries); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Exported", len(entries), "entries to", out)
		return nil
	},
}

func printLeaderboard(w io.Writer, entries []leaderboard.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Chưa có ai trên bảng xếp hạng.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-24s  %6s  %s\n", "#", "Name", "Score", "Date")
	fmt.Fprintln(w, rule(52))
	for i, en := range entries {
		fmt.Fprintf(w, "%-4d  %-24s  %6d  %s\n",
			i+1, truncate(en.Name, 24), en.Score, en.Date.Local().Format("2006-01-02"))
	}
}

func init() {
	leaderboardExportCmd.Flags().StringP("output", "o", "", `Output file ("-" for stdout; default in the data directory)`)
	leaderboardCmd.AddCommand(leaderboardExportCmd)
}
