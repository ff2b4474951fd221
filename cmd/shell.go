package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/report"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("lolmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("lolmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <player-name>")
				continue
			}
			shellShow(db, strings.Join(args, " "))
		case "analyze":
			threshold := analytics.DefaultThreshold
			if len(args) > 0 {
				v, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					cError.Fprintf(os.Stderr, "invalid threshold %q\n", args[0])
					continue
				}
				threshold = v
			}
			if err := doAnalyze(db, threshold); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list tracked players"},
		{"show <player-name>", "show a player's match history"},
		{"analyze [threshold]", "run summaries, anomaly detection, and insights"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	players, err := db.ListPlayers()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(players) == 0 {
		cMuted.Println("No players stored yet.")
		return
	}
	for i := range players {
		p := &players[i]
		n, err := db.CountPlayerMatches(p.ID)
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			return
		}
		fmt.Fprintf(os.Stdout, "  %-20s  level %-4d  %d matches\n", p.RiotID(), p.Level, n)
	}
}

func shellShow(db *storage.DB, name string) {
	player, err := db.GetPlayerByName(name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if player == nil {
		cWarn.Fprintf(os.Stderr, "no player named %q\n", name)
		return
	}
	matches, err := db.GetPlayerMatches(player.ID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Printf("No matches stored for %s yet.\n", player.RiotID())
		return
	}
	report.PrintMatchTable(os.Stdout, matches)
}
