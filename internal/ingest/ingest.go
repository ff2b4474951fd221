// Package ingest turns raw Riot match payloads into stored match records,
// deriving the per-minute rates and KDA once at extraction time.
package ingest

import (
	"fmt"
	"math"
	"time"

	"github.com/kashtan/go-lol-metrics/internal/model"
	"github.com/kashtan/go-lol-metrics/internal/riot"
)

// AssetResolver maps champion names and item/spell IDs to display assets.
// *riot.DDragon satisfies it.
type AssetResolver interface {
	ChampionIconURL(championName string) string
	ItemIconURL(itemID int) string
	ItemName(itemID int) string
	SpellIconURL(spellID int) string
}

// BuildMatchRecord extracts one player's line from a match into a record
// ready for storage. Returns an error when the player did not participate
// or the payload fails validation; malformed matches are rejected rather
// than stored with coerced values.
func BuildMatchRecord(m *riot.Match, puuid string, dd AssetResolver) (*model.MatchRecord, error) {
	p := findParticipant(m, puuid)
	if p == nil {
		return nil, fmt.Errorf("match %s: puuid not among participants", m.Metadata.MatchID)
	}
	if err := validate(m, p); err != nil {
		return nil, fmt.Errorf("match %s: %w", m.Metadata.MatchID, err)
	}

	durationMin := float64(m.Info.GameDuration) / 60
	cs := p.CS()

	rec := &model.MatchRecord{
		MatchID:      m.Metadata.MatchID,
		GameDate:     time.UnixMilli(m.Info.GameCreation),
		GameDuration: m.Info.GameDuration,

		ChampionName:    p.ChampionName,
		ChampionIconURL: dd.ChampionIconURL(p.ChampionName),

		Win: p.Win,

		Kills:             p.Kills,
		Deaths:            p.Deaths,
		Assists:           p.Assists,
		KDA:               roundTo(float64(p.Kills+p.Assists)/math.Max(float64(p.Deaths), 1), 2),
		KillParticipation: roundTo(p.Challenges.KillParticipation, 2),

		GoldEarned: p.GoldEarned,
		GoldPerMin: roundTo(float64(p.GoldEarned)/durationMin, 1),
		CS:         cs,
		CSPerMin:   roundTo(float64(cs)/durationMin, 1),

		TotalDamage:        p.TotalDamageDealtToChampions,
		DamagePerMin:       roundTo(float64(p.TotalDamageDealtToChampions)/durationMin, 1),
		DamageToObjectives: p.DamageDealtToObjectives,
		TeamDamagePct:      roundTo(p.Challenges.TeamDamagePercentage, 2),

		VisionScore:  p.VisionScore,
		WardsPlaced:  p.WardsPlaced,
		ControlWards: p.DetectorWardsPlaced,

		Items:          buildItems(p, dd),
		SummonerSpells: buildSpells(p, dd),
	}
	return rec, nil
}

func findParticipant(m *riot.Match, puuid string) *riot.Participant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}

func validate(m *riot.Match, p *riot.Participant) error {
	if m.Info.GameDuration <= 0 {
		return fmt.Errorf("non-positive game duration %d", m.Info.GameDuration)
	}
	counters := []struct {
		name  string
		value int
	}{
		{"kills", p.Kills},
		{"deaths", p.Deaths},
		{"assists", p.Assists},
		{"goldEarned", p.GoldEarned},
		{"cs", p.CS()},
		{"totalDamageDealtToChampions", p.TotalDamageDealtToChampions},
		{"visionScore", p.VisionScore},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("negative %s %d", c.name, c.value)
		}
	}
	return nil
}

// buildItems keeps only filled inventory slots, in slot order.
func buildItems(p *riot.Participant, dd AssetResolver) []model.Item {
	var items []model.Item
	for _, id := range p.ItemIDs() {
		if id <= 0 {
			continue
		}
		items = append(items, model.Item{
			ID:      id,
			Name:    dd.ItemName(id),
			IconURL: dd.ItemIconURL(id),
		})
	}
	return items
}

func buildSpells(p *riot.Participant, dd AssetResolver) []model.SummonerSpell {
	return []model.SummonerSpell{
		{ID: p.Summoner1ID, IconURL: dd.SpellIconURL(p.Summoner1ID)},
		{ID: p.Summoner2ID, IconURL: dd.SpellIconURL(p.Summoner2ID)},
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
