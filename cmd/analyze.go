package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/report"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var analyzeThreshold float64

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute player summaries, flag anomalous matches, and generate insights",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func init() {
	addAnalyzeFlags(analyzeCmd)
}

func addAnalyzeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&analyzeThreshold, "threshold", analytics.DefaultThreshold,
		"z-score threshold for anomaly detection")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return doAnalyze(db, analyzeThreshold)
}

// doAnalyze is the shared implementation for the analyze command.
func doAnalyze(db *storage.DB, threshold float64) error {
	players, err := db.ListPlayers()
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'lolmetrics extract' first.")
		return nil
	}

	summaries, err := analytics.Summarize(players, db.GetPlayerMatches)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	verdicts, err := analytics.DetectAnomalies(players, db.GetPlayerMatches, threshold)
	if err != nil {
		return fmt.Errorf("detect anomalies: %w", err)
	}
	if err := db.UpdateMatchAnomalies(verdicts); err != nil {
		return fmt.Errorf("store anomalies: %w", err)
	}

	insights := analytics.GenerateInsights(summaries)

	fmt.Fprintln(os.Stdout, "\nPlayer summary")
	report.PrintSummaryTable(os.Stdout, summaries)

	flagged, err := db.ListAnomalousMatches()
	if err != nil {
		return fmt.Errorf("list anomalies: %w", err)
	}
	rows := make([]report.AnomalyRow, 0, len(flagged))
	for _, f := range flagged {
		rows = append(rows, report.AnomalyRow{PlayerName: f.PlayerName, Match: f.Match})
	}
	fmt.Fprintf(os.Stdout, "\nAnomalies (threshold %g)\n", threshold)
	report.PrintAnomalyTable(os.Stdout, rows)

	fmt.Fprintln(os.Stdout, "\nInsights")
	report.PrintInsights(os.Stdout, insights)

	fmt.Fprintf(os.Stdout, "Players analyzed: %d, anomalies: %d, insights: %d\n",
		len(summaries), len(rows), len(insights))
	return nil
}
