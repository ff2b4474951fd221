// Package analytics computes per-player performance summaries, flags
// statistically anomalous matches, and generates rule-based coaching
// insights from stored match history. Everything here is a single-pass
// batch computation over in-memory records; no I/O happens in this package.
package analytics

import (
	"fmt"
	"math"

	"github.com/kashtan/go-lol-metrics/internal/model"
)

// MatchLookup returns the stored match collection for one player.
// Collection order does not affect any result in this package.
type MatchLookup func(playerID int64) ([]model.MatchRecord, error)

// Summarize reduces each player's match history into one PlayerSummary row.
// Players with no stored matches are omitted entirely; no zero row is
// emitted for them. The returned slice preserves the input player order.
func Summarize(players []model.Player, lookup MatchLookup) ([]model.PlayerSummary, error) {
	summaries := make([]model.PlayerSummary, 0, len(players))

	for i := range players {
		p := &players[i]
		matches, err := lookup(p.ID)
		if err != nil {
			return nil, fmt.Errorf("load matches for %s: %w", p.Name, err)
		}
		if len(matches) == 0 {
			continue
		}

		total := len(matches)
		wins := 0
		var kills, deaths, assists, kda, gpm, cspm, dpm, vision float64
		for _, m := range matches {
			if m.Win {
				wins++
			}
			kills += float64(m.Kills)
			deaths += float64(m.Deaths)
			assists += float64(m.Assists)
			kda += m.KDA
			gpm += m.GoldPerMin
			cspm += m.CSPerMin
			dpm += m.DamagePerMin
			vision += float64(m.VisionScore)
		}

		n := float64(total)
		summaries = append(summaries, model.PlayerSummary{
			Name:           p.Name,
			Tag:            p.Tag,
			Level:          p.Level,
			ProfileIconURL: p.ProfileIconURL,
			TotalGames:     total,
			Wins:           wins,
			Losses:         total - wins,
			WinRate:        roundTo(float64(wins)/n*100, 1),
			AvgKills:       roundTo(kills/n, 1),
			AvgDeaths:      roundTo(deaths/n, 1),
			AvgAssists:     roundTo(assists/n, 1),
			AvgKDA:         roundTo(kda/n, 2),
			AvgGPM:         roundTo(gpm/n, 0),
			AvgCSPM:        roundTo(cspm/n, 1),
			AvgDPM:         roundTo(dpm/n, 0),
			AvgVision:      roundTo(vision/n, 0),
		})
	}

	return summaries, nil
}

// roundTo rounds v to the given number of decimal places. The same rounding
// is applied everywhere in this package so that insight thresholds compare
// against exactly the values shown in reports.
func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
