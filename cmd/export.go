package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/export"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export summaries, match history, anomalies, and insights as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	addExportFlags(exportCmd)
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&exportOut, "out", "tableau_data", "output directory for CSV files")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return doExport(db, exportOut)
}

// doExport is the shared implementation for the export command.
func doExport(db *storage.DB, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	summaries, err := analytics.Summarize(players, db.GetPlayerMatches)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	insights := analytics.GenerateInsights(summaries)

	allMatches, err := db.ListAllMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	anomalies, err := db.ListAnomalousMatches()
	if err != nil {
		return fmt.Errorf("list anomalies: %w", err)
	}

	files := []struct {
		name  string
		rows  int
		write func(f *os.File) error
	}{
		{"player_summary.csv", len(summaries), func(f *os.File) error {
			return export.WritePlayerSummaryCSV(f, summaries)
		}},
		{"match_history.csv", len(allMatches), func(f *os.File) error {
			return export.WriteMatchHistoryCSV(f, allMatches)
		}},
		{"anomalies.csv", len(anomalies), func(f *os.File) error {
			return export.WriteAnomaliesCSV(f, anomalies)
		}},
		{"player_insights.csv", len(insights), func(f *os.File) error {
			return export.WriteInsightsCSV(f, insights)
		}},
	}

	for _, file := range files {
		path := filepath.Join(outDir, file.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		err = file.write(f)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s (%d rows)\n", path, file.rows)
	}
	return nil
}
