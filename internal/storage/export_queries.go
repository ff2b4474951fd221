package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

// PlayerMatchRow pairs a stored match with its owner's identity, used by
// the CSV exporter where rows from all players land in one file.
type PlayerMatchRow struct {
	PlayerName     string
	ProfileIconURL string
	Match          model.MatchRecord
}

// ListAllMatches returns every stored match joined with its player,
// ordered by player name then newest game first.
func (db *DB) ListAllMatches() ([]PlayerMatchRow, error) {
	return db.queryMatchRows(`
		SELECT p.name, p.profile_icon_url,
		       m.player_id, m.match_id, m.game_date, m.game_duration,
		       m.champion_name, m.champion_icon_url, m.win,
		       m.kills, m.deaths, m.assists, m.kda, m.kill_participation,
		       m.gold_earned, m.gold_per_min, m.cs, m.cs_per_min,
		       m.total_damage, m.damage_per_min, m.damage_to_objectives, m.team_damage_pct,
		       m.vision_score, m.wards_placed, m.control_wards,
		       m.is_anomaly, m.anomaly_reason
		FROM match_history m
		JOIN players p ON p.id = m.player_id
		ORDER BY p.name, m.game_date DESC`)
}

// ListAnomalousMatches returns only flagged matches joined with their
// players, ordered by player name then newest game first.
func (db *DB) ListAnomalousMatches() ([]PlayerMatchRow, error) {
	return db.queryMatchRows(`
		SELECT p.name, p.profile_icon_url,
		       m.player_id, m.match_id, m.game_date, m.game_duration,
		       m.champion_name, m.champion_icon_url, m.win,
		       m.kills, m.deaths, m.assists, m.kda, m.kill_participation,
		       m.gold_earned, m.gold_per_min, m.cs, m.cs_per_min,
		       m.total_damage, m.damage_per_min, m.damage_to_objectives, m.team_damage_pct,
		       m.vision_score, m.wards_placed, m.control_wards,
		       m.is_anomaly, m.anomaly_reason
		FROM match_history m
		JOIN players p ON p.id = m.player_id
		WHERE m.is_anomaly = 1
		ORDER BY p.name, m.game_date DESC`)
}

func (db *DB) queryMatchRows(query string) ([]PlayerMatchRow, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerMatchRow
	for rows.Next() {
		var r PlayerMatchRow
		var gameDate string
		var win, isAnomaly int
		var reason sql.NullString
		m := &r.Match
		if err := rows.Scan(
			&r.PlayerName, &r.ProfileIconURL,
			&m.PlayerID, &m.MatchID, &gameDate, &m.GameDuration,
			&m.ChampionName, &m.ChampionIconURL, &win,
			&m.Kills, &m.Deaths, &m.Assists, &m.KDA, &m.KillParticipation,
			&m.GoldEarned, &m.GoldPerMin, &m.CS, &m.CSPerMin,
			&m.TotalDamage, &m.DamagePerMin, &m.DamageToObjectives, &m.TeamDamagePct,
			&m.VisionScore, &m.WardsPlaced, &m.ControlWards,
			&isAnomaly, &reason,
		); err != nil {
			return nil, err
		}
		m.Win = win != 0
		m.IsAnomaly = isAnomaly != 0
		m.AnomalyReason = reason.String
		t, err := time.Parse(timeLayout, gameDate)
		if err != nil {
			return nil, fmt.Errorf("parse game_date for %s: %w", m.MatchID, err)
		}
		m.GameDate = t
		out = append(out, r)
	}
	return out, rows.Err()
}
