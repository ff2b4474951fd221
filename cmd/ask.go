package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/model"
	"github.com/kashtan/go-lol-metrics/internal/report"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

const askSystemPrompt = `You are a League of Legends performance coach. You are given structured data
from a match analytics tool and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable: focus on what the player can actually improve.
- Avoid generic League advice unless it directly explains a pattern in the data.

Metrics glossary:
- KDA: (kills + assists) ÷ deaths. 2.0 is break-even for most roles, 3.0+ is strong.
- GPM: gold per minute. Typical range 350–450 for carries.
- CS/min: creep score per minute. 6+ is solid, below 4 means missed farm.
- DPM: damage to champions per minute.
- Vision score: ward and sweep contribution. 25+ per game is good, under 15 is weak.
- Win rate: percentage of stored games won.
- Anomaly: a match whose KDA, deaths, DPM, GPM, or duration sits far outside
  that player's own baseline. Outlier games, not necessarily bad ones.`

var (
	askModel  string
	askAPIKey string
)

var askCmd = &cobra.Command{
	Use:   "ask <player-name> <question>",
	Short: "AI-powered grounded coaching (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	name, question := args[0], args[1]

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
		return fmt.Errorf("no player named %q", name)
	}

	summaries, err := analytics.Summarize([]model.Player{*player}, db.GetPlayerMatches)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if len(summaries) == 0 {
		return fmt.Errorf("no matches stored for %s", player.RiotID())
	}

	matches, err := db.GetPlayerMatches(player.ID)
	if err != nil {
		return fmt.Errorf("get matches: %w", err)
	}
	var flagged []report.AnomalyRow
	for _, m := range matches {
		if m.IsAnomaly {
			flagged = append(flagged, report.AnomalyRow{PlayerName: player.Name, Match: m})
		}
	}
	insights := analytics.GenerateInsights(summaries)

	contextJSON, err := buildAskContext(summaries[0], flagged, insights)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	return callAnthropic(cmd.Context(), askAPIKey, askModel, contextJSON, question)
}

// buildAskContext serialises one player's analytics into compact JSON.
func buildAskContext(summary model.PlayerSummary, flagged []report.AnomalyRow, insights []model.Insight) (string, error) {
	type anomalyEntry struct {
		Date     string  `json:"date"`
		Champion string  `json:"champion"`
		Win      bool    `json:"win"`
		KDA      float64 `json:"kda"`
		Deaths   int     `json:"deaths"`
		Reason   string  `json:"reason"`
	}
	anomalies := make([]anomalyEntry, 0, len(flagged))
	for _, r := range flagged {
		anomalies = append(anomalies, anomalyEntry{
			Date:     r.Match.GameDate.Format("2006-01-02"),
			Champion: r.Match.ChampionName,
			Win:      r.Match.Win,
			KDA:      r.Match.KDA,
			Deaths:   r.Match.Deaths,
			Reason:   r.Match.AnomalyReason,
		})
	}

	remarks := make([]string, 0, len(insights))
	for _, in := range insights {
		remarks = append(remarks, fmt.Sprintf("[%s] %s", in.Type, in.Text))
	}

	doc := map[string]interface{}{
		"subject": "player",
		"player":  summary.Name,
		"overview": map[string]interface{}{
			"games":      summary.TotalGames,
			"wins":       summary.Wins,
			"losses":     summary.Losses,
			"win_rate":   summary.WinRate,
			"avg_kda":    summary.AvgKDA,
			"avg_gpm":    summary.AvgGPM,
			"avg_cspm":   summary.AvgCSPM,
			"avg_dpm":    summary.AvgDPM,
			"avg_vision": summary.AvgVision,
		},
		"anomalies": anomalies,
		"insights":  remarks,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Coaching ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: askSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
