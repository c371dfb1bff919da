package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scheme-assist/backend/pkg/config"
	"github.com/scheme-assist/backend/pkg/logger"
)

type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel string

	root := &cobra.Command{
		Use:   "assist",
		Short: "Find government welfare schemes from the terminal",
		Long: `assist searches the scheme catalog, checks which schemes fit a profile,
answers questions in a chat and keeps a list of saved schemes.

Configuration is read from config.yaml and SCHEME_ASSIST_* environment
variables, the same as the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(logLevel, "console", "stderr"); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level (written to stderr)")

	root.AddCommand(
		newSchemesCmd(a),
		newCheckCmd(a),
		newChatCmd(a),
		newBookmarksCmd(a),
	)
	return root
}

func main() {
	defer logger.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
