package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chemmaster/chemmaster/internal/app"
	"github.com/chemmaster/chemmaster/internal/store"
)

// runApp opens the stores, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, envOptions{ai: true})
	if err != nil {
		return err
	}
	defer e.Close()

	if e.gateway == nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", e.gatewayErr)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
	}

	dataDir, err := store.DataDir()
	if err != nil {
		return err
	}

	return app.Run(cmd.Context(), app.Deps{
		Gateway: e.gateway,
		Board:   e.board(),
		Profile: e.profile(),
		Events:  e.store.EventRepo(),
		DataDir: dataDir,
		Logger:  e.logger,
	})
}
