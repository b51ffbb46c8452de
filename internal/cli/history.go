package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dost-app/dost/internal/conversation"
)

// NewHistoryCmd creates the 'history' command, which prints stored turns.
func NewHistoryCmd() *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the most recent conversation turns",
		Example: `  dost history
  dost history --limit 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, _, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			turns, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("reading history: %w", err)
			}
			return printTurns(cmd.OutOrStdout(), turns, jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of turns to print")
	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func printTurns(w io.Writer, turns []conversation.Turn, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(turns)
	}

	if len(turns) == 0 {
		fmt.Fprintln(w, "No conversation turns stored.")
		return nil
	}
	for _, t := range turns {
		fmt.Fprintf(w, "[%s] %s: %s\n", t.CreatedAt.Format(time.DateTime), t.Role, t.Content)
	}
	return nil
}
