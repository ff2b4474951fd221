// Package export writes analysis results as CSV files for dashboard tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/kashtan/go-lol-metrics/internal/model"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

const dateLayout = "2006-01-02 15:04:05"

// WritePlayerSummaryCSV writes one aggregate row per player.
func WritePlayerSummaryCSV(w io.Writer, summaries []model.PlayerSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "tag_line", "level", "profile_icon_url",
		"total_games", "wins", "losses", "win_rate",
		"avg_kills", "avg_deaths", "avg_assists", "avg_kda",
		"avg_gpm", "avg_cspm", "avg_dpm", "avg_vision",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range summaries {
		record := []string{
			s.Name, s.Tag, strconv.Itoa(s.Level), s.ProfileIconURL,
			strconv.Itoa(s.TotalGames), strconv.Itoa(s.Wins), strconv.Itoa(s.Losses),
			floatField(s.WinRate),
			floatField(s.AvgKills), floatField(s.AvgDeaths), floatField(s.AvgAssists),
			floatField(s.AvgKDA),
			floatField(s.AvgGPM), floatField(s.AvgCSPM), floatField(s.AvgDPM),
			floatField(s.AvgVision),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMatchHistoryCSV writes every stored match, one row per player-match.
func WriteMatchHistoryCSV(w io.Writer, rows []storage.PlayerMatchRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "profile_icon_url", "match_id", "game_date", "game_duration",
		"champion_name", "champion_icon_url", "win",
		"kills", "deaths", "assists", "kda", "kill_participation",
		"gold_earned", "gold_per_min", "cs", "cs_per_min",
		"total_damage", "damage_per_min", "damage_to_objectives", "team_damage_pct",
		"vision_score", "wards_placed", "control_wards",
		"items", "summoner_spells", "is_anomaly", "anomaly_reason",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		m := &r.Match
		items, err := json.Marshal(m.Items)
		if err != nil {
			return fmt.Errorf("marshal items for %s: %w", m.MatchID, err)
		}
		spells, err := json.Marshal(m.SummonerSpells)
		if err != nil {
			return fmt.Errorf("marshal summoner spells for %s: %w", m.MatchID, err)
		}
		record := []string{
			r.PlayerName, r.ProfileIconURL, m.MatchID,
			m.GameDate.Format(dateLayout), strconv.Itoa(m.GameDuration),
			m.ChampionName, m.ChampionIconURL, boolField(m.Win),
			strconv.Itoa(m.Kills), strconv.Itoa(m.Deaths), strconv.Itoa(m.Assists),
			floatField(m.KDA), floatField(m.KillParticipation),
			strconv.Itoa(m.GoldEarned), floatField(m.GoldPerMin),
			strconv.Itoa(m.CS), floatField(m.CSPerMin),
			strconv.Itoa(m.TotalDamage), floatField(m.DamagePerMin),
			strconv.Itoa(m.DamageToObjectives), floatField(m.TeamDamagePct),
			strconv.Itoa(m.VisionScore), strconv.Itoa(m.WardsPlaced), strconv.Itoa(m.ControlWards),
			string(items), string(spells), boolField(m.IsAnomaly), m.AnomalyReason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteAnomaliesCSV writes only flagged matches with their stored reasons.
func WriteAnomaliesCSV(w io.Writer, rows []storage.PlayerMatchRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"name", "profile_icon_url", "game_date",
		"champion_name", "champion_icon_url", "win", "kda",
		"kills", "deaths", "assists", "anomaly_reason",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		m := &r.Match
		record := []string{
			r.PlayerName, r.ProfileIconURL, m.GameDate.Format(dateLayout),
			m.ChampionName, m.ChampionIconURL, boolField(m.Win), floatField(m.KDA),
			strconv.Itoa(m.Kills), strconv.Itoa(m.Deaths), strconv.Itoa(m.Assists),
			m.AnomalyReason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteInsightsCSV writes the generated coaching remarks.
func WriteInsightsCSV(w io.Writer, insights []model.Insight) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "profile_icon_url", "type", "insight"}); err != nil {
		return err
	}
	for _, in := range insights {
		record := []string{in.PlayerName, in.ProfileIconURL, string(in.Type), in.Text}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func floatField(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func boolField(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
