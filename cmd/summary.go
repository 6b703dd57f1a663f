package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <topic>",
	Short: "Print a study summary for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, envOptions{ai: true})
		if err != nil {
			return err
		}
		defer e.Close()

		gw, err := e.requireGateway()
		if err != nil {
			return err
		}

		s, err := gw.GetTopicSummary(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, strings.ToUpper(s.Topic))
		fmt.Fprintln(w, rule(60))
		fmt.Fprintln(w, s.Overview)
		fmt.Fprintln(w)
		for _, p := range s.KeyPoints {
			fmt.Fprintln(w, "•", p)
		}
		if s.Example != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Ví dụ:", s.Example)
		}
		return nil
	},
}
