package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the dost command tree. Running it without a
// subcommand serves HTTP.
func NewRootCmd(version string) *cobra.Command {
	serve := NewServeCmd()

	root := &cobra.Command{
		Use:   "dost",
		Short: "Conversational companion chat relay",
		Long: `dost relays chat messages to a language model with persistent memory,
personalization, web search and client-executed event creation.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serve.RunE,
	}

	root.AddCommand(serve)
	root.AddCommand(NewMigrateCmd())
	root.AddCommand(NewHistoryCmd())

	return root
}
