package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chemmaster/chemmaster/internal/chat"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the AI tutor one question",
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

		reply, err := gw.AskAgent(cmd.Context(), nil, strings.Join(args, " "))
		if err != nil {
			e.logger.Warn("ask failed", zap.Error(err))
			reply = chat.Apology
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}
