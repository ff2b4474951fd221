package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSummaryTable prints one aggregate row per player.
func PrintSummaryTable(w io.Writer, summaries []model.PlayerSummary) {
	table := newTable(w)
	table.Header("PLAYER", "LVL", "GAMES", "W", "L", "WIN%", "KDA", "K", "D", "A",
		"GPM", "CS/MIN", "DPM", "VISION")

	for _, s := range summaries {
		table.Append(
			s.Name,
			strconv.Itoa(s.Level),
			strconv.Itoa(s.TotalGames),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.Losses),
			fmt.Sprintf("%.1f%%", s.WinRate),
			fmt.Sprintf("%.2f", s.AvgKDA),
			fmt.Sprintf("%.1f", s.AvgKills),
			fmt.Sprintf("%.1f", s.AvgDeaths),
			fmt.Sprintf("%.1f", s.AvgAssists),
			fmt.Sprintf("%.0f", s.AvgGPM),
			fmt.Sprintf("%.1f", s.AvgCSPM),
			fmt.Sprintf("%.0f", s.AvgDPM),
			fmt.Sprintf("%.0f", s.AvgVision),
		)
	}
	table.Render()
}

// PrintMatchTable prints one row per stored match, newest first. Flagged
// matches are marked with "!" and show the stored reason.
func PrintMatchTable(w io.Writer, matches []model.MatchRecord) {
	table := newTable(w)
	table.Header(" ", "DATE", "CHAMPION", "W/L", "K/D/A", "KDA", "GPM", "CS/MIN", "DPM",
		"VISION", "MIN", "REASON")

	for i := range matches {
		m := &matches[i]
		marker := " "
		if m.IsAnomaly {
			marker = "!"
		}
		result := "L"
		if m.Win {
			result = "W"
		}
		table.Append(
			marker,
			m.GameDate.Format("2006-01-02"),
			m.ChampionName,
			result,
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			fmt.Sprintf("%.2f", m.KDA),
			fmt.Sprintf("%.0f", m.GoldPerMin),
			fmt.Sprintf("%.1f", m.CSPerMin),
			fmt.Sprintf("%.0f", m.DamagePerMin),
			strconv.Itoa(m.VisionScore),
			strconv.Itoa(m.DurationMinutes()),
			m.AnomalyReason,
		)
	}
	table.Render()
}

// AnomalyRow pairs a flagged match with its player's name.
type AnomalyRow struct {
	PlayerName string
	Match      model.MatchRecord
}

// PrintAnomalyTable prints every flagged match across the roster.
func PrintAnomalyTable(w io.Writer, rows []AnomalyRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No anomalies detected.")
		return
	}

	table := newTable(w)
	table.Header("PLAYER", "DATE", "CHAMPION", "K/D/A", "KDA", "GPM", "DPM", "MIN", "REASON")

	for _, r := range rows {
		m := &r.Match
		table.Append(
			r.PlayerName,
			m.GameDate.Format("2006-01-02"),
			m.ChampionName,
			fmt.Sprintf("%d/%d/%d", m.Kills, m.Deaths, m.Assists),
			fmt.Sprintf("%.2f", m.KDA),
			fmt.Sprintf("%.0f", m.GoldPerMin),
			fmt.Sprintf("%.0f", m.DamagePerMin),
			strconv.Itoa(m.DurationMinutes()),
			m.AnomalyReason,
		)
	}
	table.Render()
}

// PrintInsights prints coaching remarks grouped under each player,
// strengths in green and improvements in yellow.
func PrintInsights(w io.Writer, insights []model.Insight) {
	if len(insights) == 0 {
		fmt.Fprintln(w, "No insights generated.")
		return
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	lastPlayer := ""
	for _, in := range insights {
		if in.PlayerName != lastPlayer {
			fmt.Fprintf(w, "\n%s\n", in.PlayerName)
			lastPlayer = in.PlayerName
		}
		switch in.Type {
		case model.InsightStrength:
			green.Fprintf(w, "  + %s\n", in.Text)
		default:
			yellow.Fprintf(w, "  - %s\n", in.Text)
		}
	}
	fmt.Fprintln(w)
}
