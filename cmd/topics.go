package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemmaster/chemmaster/internal/topics"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the topic catalog",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, c := range topics.Cards {
			fmt.Fprintf(w, "%s  %-20s  %s\n", c.Icon, c.Name, c.Description)
		}
	},
}
