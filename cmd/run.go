package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Full pipeline: extract, analyze, export",
	Args:  cobra.NoArgs,
	RunE:  runPipeline,
}

func init() {
	addExtractFlags(runCmd)
	addAnalyzeFlags(runCmd)
	addExportFlags(runCmd)
	_ = runCmd.MarkFlagRequired("roster")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := doExtract(db, extractRoster, extractRegion, extractRoute, extractCount); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if err := doAnalyze(db, analyzeThreshold); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := doExport(db, exportOut); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
