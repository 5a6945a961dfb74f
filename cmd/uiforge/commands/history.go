package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/uiforge/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and manage saved conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		sessions, err := store.Sessions(cmd.Context())
		if err != nil {
			return err
		}
		return writeResult(cmd, sessionList(sessions))
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print the turns of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		turns, err := store.Turns(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}
		if len(turns) == 0 {
			return fmt.Errorf("%w: %s", history.ErrSessionNotFound, args[0])
		}
		return writeResult(cmd, turnList(turns))
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear <session>",
	Short: "Delete a session and its turns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		n, err := store.Clear(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		logInfo("Removed %d turns from %s", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)

	historyShowCmd.Flags().Int("limit", 0, "show only the last N turns (0=all)")
}

// sessionList renders as a table in text mode and as an array otherwise.
type sessionList []history.Session

func (l sessionList) String() string {
	if len(l) == 0 {
		return "No saved sessions."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-36s  %5s  %s\n", "SESSION", "TURNS", "LAST ACTIVE")
	for _, s := range l {
		fmt.Fprintf(&sb, "%-36s  %5d  %s\n", s.ID, s.Turns, humanize.Time(s.LastActivity))
	}
	return sb.String()
}

type turnList []history.Turn

func (l turnList) String() string {
	var sb strings.Builder
	for i, t := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "[%s] %s\n%s\n", t.Role, humanize.Time(t.CreatedAt), strings.TrimSpace(t.Content))
	}
	return sb.String()
}
