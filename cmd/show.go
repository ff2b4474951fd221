package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/report"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <player-name>",
	Short: "Show a player's stored match history",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	player, err := db.GetPlayerByName(name)
	if err != nil {
		return fmt.Errorf("query player: %w", err)
	}
	if player == nil {
		fmt.Fprintf(os.Stderr, "No player named %q. Run 'lolmetrics list' to see the roster.\n", name)
		return nil
	}

	matches, err := db.GetPlayerMatches(player.ID)
	if err != nil {
		return fmt.Errorf("get matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintf(os.Stdout, "No matches stored for %s yet.\n", player.RiotID())
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%s  |  Level %d  |  %d matches\n\n",
		player.RiotID(), player.Level, len(matches))
	report.PrintMatchTable(os.Stdout, matches)
	return nil
}
