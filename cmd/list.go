package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked players and their stored match counts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'lolmetrics extract --roster <file>' to add some.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %7s  %s\n", "PLAYER", "LEVEL", "MATCHES", "UPDATED")
	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %7s  %s\n", "────────────────────", "──────", "───────", "───────────")
	for i := range players {
		p := &players[i]
		n, err := db.CountPlayerMatches(p.ID)
		if err != nil {
			return fmt.Errorf("count matches for %s: %w", p.Name, err)
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-6d  %7d  %s\n",
			p.RiotID(), p.Level, n, p.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}
