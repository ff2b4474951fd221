package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/model"
)

// UpsertPlayer inserts or refreshes a roster member keyed by PUUID and
// backfills p.ID with the stored row id.
func (db *DB) UpsertPlayer(p *model.Player) error {
	_, err := db.conn.Exec(`
		INSERT INTO players(puuid, name, tag_line, level, profile_icon_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			name = excluded.name,
			tag_line = excluded.tag_line,
			level = excluded.level,
			profile_icon_url = excluded.profile_icon_url,
			updated_at = excluded.updated_at`,
		p.PUUID, p.Name, p.Tag, p.Level, p.ProfileIconURL,
		p.UpdatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.RiotID(), err)
	}
	return db.conn.QueryRow("SELECT id FROM players WHERE puuid = ?", p.PUUID).Scan(&p.ID)
}

// ListPlayers returns all stored players ordered by name.
func (db *DB) ListPlayers() ([]model.Player, error) {
	rows, err := db.conn.Query(`
		SELECT id, puuid, name, tag_line, level, profile_icon_url, updated_at
		FROM players ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetPlayerByName finds a player by display name. Returns nil if no player matches.
func (db *DB) GetPlayerByName(name string) (*model.Player, error) {
	p, err := scanPlayer(db.conn.QueryRow(`
		SELECT id, puuid, name, tag_line, level, profile_icon_url, updated_at
		FROM players WHERE name = ? COLLATE NOCASE LIMIT 1`, name).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPlayer(scan func(dest ...any) error) (*model.Player, error) {
	var p model.Player
	var updatedAt string
	if err := scan(&p.ID, &p.PUUID, &p.Name, &p.Tag, &p.Level, &p.ProfileIconURL, &updatedAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at for %s: %w", p.Name, err)
	}
	p.UpdatedAt = t
	return &p, nil
}

// InsertMatches bulk-inserts match records in a transaction. Uses
// INSERT OR REPLACE so re-fetching a player is idempotent.
func (db *DB) InsertMatches(matches []model.MatchRecord) error {
	if len(matches) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_history(
			player_id, match_id, game_date, game_duration,
			champion_name, champion_icon_url, win,
			kills, deaths, assists, kda, kill_participation,
			gold_earned, gold_per_min, cs, cs_per_min,
			total_damage, damage_per_min, damage_to_objectives, team_damage_pct,
			vision_score, wards_placed, control_wards,
			items, summoner_spells, is_anomaly, anomaly_reason
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range matches {
		m := &matches[i]
		items, err := json.Marshal(m.Items)
		if err != nil {
			return fmt.Errorf("marshal items for %s: %w", m.MatchID, err)
		}
		spells, err := json.Marshal(m.SummonerSpells)
		if err != nil {
			return fmt.Errorf("marshal summoner spells for %s: %w", m.MatchID, err)
		}
		_, err = stmt.Exec(
			m.PlayerID, m.MatchID, m.GameDate.UTC().Format(timeLayout), m.GameDuration,
			m.ChampionName, m.ChampionIconURL, boolInt(m.Win),
			m.Kills, m.Deaths, m.Assists, m.KDA, m.KillParticipation,
			m.GoldEarned, m.GoldPerMin, m.CS, m.CSPerMin,
			m.TotalDamage, m.DamagePerMin, m.DamageToObjectives, m.TeamDamagePct,
			m.VisionScore, m.WardsPlaced, m.ControlWards,
			string(items), string(spells), boolInt(m.IsAnomaly), nullString(m.AnomalyReason),
		)
		if err != nil {
			return fmt.Errorf("insert match %s: %w", m.MatchID, err)
		}
	}
	return tx.Commit()
}

// GetPlayerMatches returns all stored matches for a player, newest first.
func (db *DB) GetPlayerMatches(playerID int64) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, game_date, game_duration,
		       champion_name, champion_icon_url, win,
		       kills, deaths, assists, kda, kill_participation,
		       gold_earned, gold_per_min, cs, cs_per_min,
		       total_damage, damage_per_min, damage_to_objectives, team_damage_pct,
		       vision_score, wards_placed, control_wards,
		       items, summoner_spells, is_anomaly, anomaly_reason
		FROM match_history WHERE player_id = ?
		ORDER BY game_date DESC`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var m model.MatchRecord
		var gameDate, items, spells string
		var win, isAnomaly int
		var reason sql.NullString
		if err := rows.Scan(
			&m.MatchID, &gameDate, &m.GameDuration,
			&m.ChampionName, &m.ChampionIconURL, &win,
			&m.Kills, &m.Deaths, &m.Assists, &m.KDA, &m.KillParticipation,
			&m.GoldEarned, &m.GoldPerMin, &m.CS, &m.CSPerMin,
			&m.TotalDamage, &m.DamagePerMin, &m.DamageToObjectives, &m.TeamDamagePct,
			&m.VisionScore, &m.WardsPlaced, &m.ControlWards,
			&items, &spells, &isAnomaly, &reason,
		); err != nil {
			return nil, err
		}
		m.PlayerID = playerID
		m.Win = win != 0
		m.IsAnomaly = isAnomaly != 0
		m.AnomalyReason = reason.String
		t, err := time.Parse(timeLayout, gameDate)
		if err != nil {
			return nil, fmt.Errorf("parse game_date for %s: %w", m.MatchID, err)
		}
		m.GameDate = t
		if err := json.Unmarshal([]byte(items), &m.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items for %s: %w", m.MatchID, err)
		}
		if err := json.Unmarshal([]byte(spells), &m.SummonerSpells); err != nil {
			return nil, fmt.Errorf("unmarshal summoner spells for %s: %w", m.MatchID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountPlayerMatches returns how many matches are stored for a player.
func (db *DB) CountPlayerMatches(playerID int64) (int, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM match_history WHERE player_id = ?", playerID).Scan(&n)
	return n, err
}

// DeletePlayerMatches removes all stored matches for a player.
func (db *DB) DeletePlayerMatches(playerID int64) error {
	_, err := db.conn.Exec("DELETE FROM match_history WHERE player_id = ?", playerID)
	return err
}

// PruneMatches deletes everything but the newest keep matches for a player.
func (db *DB) PruneMatches(playerID int64, keep int) error {
	_, err := db.conn.Exec(`
		DELETE FROM match_history
		WHERE player_id = ? AND match_id NOT IN (
			SELECT match_id FROM match_history
			WHERE player_id = ?
			ORDER BY game_date DESC LIMIT ?
		)`, playerID, playerID, keep)
	return err
}

// UpdateMatchAnomalies applies detector verdicts in one transaction. Clean
// verdicts clear any previously stored flag, so re-running the detector
// always leaves the table reflecting only the latest pass.
func (db *DB) UpdateMatchAnomalies(verdicts []analytics.AnomalyVerdict) error {
	if len(verdicts) == 0 {
		return nil
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE match_history SET is_anomaly = ?, anomaly_reason = ?
		WHERE player_id = ? AND match_id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range verdicts {
		_, err = stmt.Exec(boolInt(v.IsAnomaly), nullString(v.Reason), v.PlayerID, v.MatchID)
		if err != nil {
			return fmt.Errorf("update anomaly for %s: %w", v.MatchID, err)
		}
	}
	return tx.Commit()
}

// CountAnomalies returns the number of flagged matches across all players.
func (db *DB) CountAnomalies() (int, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM match_history WHERE is_anomaly = 1").Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString maps the empty string to NULL so "no reason" is not stored
// as an empty reason.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
