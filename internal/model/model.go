package model

import "time"

// Player is one tracked roster member.
type Player struct {
	ID             int64
	PUUID          string
	Name           string
	Tag            string
	Level          int
	ProfileIconURL string
	UpdatedAt      time.Time
}

// RiotID formats the player's display name and tag line.
func (p *Player) RiotID() string {
	return p.Name + "#" + p.Tag
}

// Item is one inventory slot at the end of a match.
type Item struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"icon_url"`
}

// SummonerSpell is one of the two summoner abilities taken into a match.
type SummonerSpell struct {
	ID      int    `json:"id"`
	IconURL string `json:"icon_url"`
}

// MatchRecord is one completed game for one player.
//
// KDA, GoldPerMin, CSPerMin, and DamagePerMin are derived once at ingestion
// and treated as immutable inputs by the analytics packages; they are never
// recomputed from the raw counters. IsAnomaly and AnomalyReason are owned by
// the anomaly detector and overwritten on every analyze run.
type MatchRecord struct {
	PlayerID int64
	MatchID  string

	GameDate     time.Time
	GameDuration int // seconds

	ChampionName    string
	ChampionIconURL string

	Win bool

	Kills             int
	Deaths            int
	Assists           int
	KDA               float64
	KillParticipation float64

	GoldEarned int
	GoldPerMin float64
	CS         int
	CSPerMin   float64

	TotalDamage        int
	DamagePerMin       float64
	DamageToObjectives int
	TeamDamagePct      float64

	VisionScore  int
	WardsPlaced  int
	ControlWards int

	Items          []Item
	SummonerSpells []SummonerSpell

	IsAnomaly     bool
	AnomalyReason string // empty means no reason stored
}

// DurationMinutes returns the whole minutes played, truncated.
func (m *MatchRecord) DurationMinutes() int {
	return m.GameDuration / 60
}

// PlayerSummary is one aggregate row per player with stored history.
// All fields are derived by the aggregator and recomputed fresh every run.
type PlayerSummary struct {
	Name           string
	Tag            string
	Level          int
	ProfileIconURL string

	TotalGames int
	Wins       int
	Losses     int
	WinRate    float64 // percentage, 1 decimal

	AvgKills   float64 // 1 decimal
	AvgDeaths  float64 // 1 decimal
	AvgAssists float64 // 1 decimal
	AvgKDA     float64 // 2 decimals
	AvgGPM     float64 // whole number
	AvgCSPM    float64 // 1 decimal
	AvgDPM     float64 // whole number
	AvgVision  float64 // whole number
}

// InsightType classifies a coaching remark.
type InsightType string

const (
	InsightStrength    InsightType = "Strength"
	InsightImprovement InsightType = "Improvement"
)

// Insight is one coaching remark derived from a PlayerSummary.
type Insight struct {
	PlayerName     string
	ProfileIconURL string
	Type           InsightType
	Text           string
}
