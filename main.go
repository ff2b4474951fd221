// Package main is the entry point for the lolmetrics CLI tool, which fetches
// League of Legends match history for a fixed roster and computes player
// performance summaries, anomaly flags, and coaching insights.
package main

import "github.com/kashtan/go-lol-metrics/cmd"

func main() {
	cmd.Execute()
}
