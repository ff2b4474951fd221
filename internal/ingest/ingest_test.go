package ingest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kashtan/go-lol-metrics/internal/riot"
)

// stubAssets resolves to deterministic URLs without touching Data Dragon.
type stubAssets struct{}

func (stubAssets) ChampionIconURL(name string) string { return "champ/" + name }
func (stubAssets) ItemIconURL(id int) string          { return fmt.Sprintf("item/%d", id) }
func (stubAssets) ItemName(id int) string             { return fmt.Sprintf("Item %d", id) }
func (stubAssets) SpellIconURL(id int) string         { return fmt.Sprintf("spell/%d", id) }

func sampleMatch() *riot.Match {
	var m riot.Match
	m.Metadata.MatchID = "RU_1001"
	m.Info.GameCreation = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC).UnixMilli()
	m.Info.GameDuration = 1800

	var p riot.Participant
	p.PUUID = "puuid-alice"
	p.ChampionName = "Kai'Sa"
	p.Win = true
	p.Kills, p.Deaths, p.Assists = 8, 4, 7
	p.GoldEarned = 12030
	p.TotalMinionsKilled, p.NeutralMinionsKilled = 160, 23
	p.TotalDamageDealtToChampions = 16510
	p.DamageDealtToObjectives = 5000
	p.VisionScore, p.WardsPlaced, p.DetectorWardsPlaced = 24, 11, 3
	p.Item0, p.Item1, p.Item6 = 3089, 0, 3363
	p.Summoner1ID, p.Summoner2ID = 4, 7
	p.Challenges.KillParticipation = 0.512
	p.Challenges.TeamDamagePercentage = 0.248

	var other riot.Participant
	other.PUUID = "puuid-bob"

	m.Info.Participants = []riot.Participant{other, p}
	return &m
}

func TestBuildMatchRecordDerivesRates(t *testing.T) {
	rec, err := BuildMatchRecord(sampleMatch(), "puuid-alice", stubAssets{})
	if err != nil {
		t.Fatalf("BuildMatchRecord: %v", err)
	}

	if rec.MatchID != "RU_1001" {
		t.Errorf("match id: %s", rec.MatchID)
	}
	if !rec.GameDate.Equal(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("game date: %v", rec.GameDate)
	}
	if rec.ChampionName != "Kai'Sa" || rec.ChampionIconURL != "champ/Kai'Sa" {
		t.Errorf("champion: %s %s", rec.ChampionName, rec.ChampionIconURL)
	}

	// 30 minutes: (8+7)/4 = 3.75, 12030/30 = 401, 183/30 = 6.1, 16510/30 ≈ 550.3
	if rec.KDA != 3.75 {
		t.Errorf("KDA = %v, want 3.75", rec.KDA)
	}
	if rec.GoldPerMin != 401 {
		t.Errorf("GoldPerMin = %v, want 401", rec.GoldPerMin)
	}
	if rec.CS != 183 || rec.CSPerMin != 6.1 {
		t.Errorf("CS = %d / %v, want 183 / 6.1", rec.CS, rec.CSPerMin)
	}
	if rec.DamagePerMin != 550.3 {
		t.Errorf("DamagePerMin = %v, want 550.3", rec.DamagePerMin)
	}
	if rec.KillParticipation != 0.51 || rec.TeamDamagePct != 0.25 {
		t.Errorf("challenges = %v / %v", rec.KillParticipation, rec.TeamDamagePct)
	}
	if rec.ControlWards != 3 {
		t.Errorf("ControlWards = %d, want 3", rec.ControlWards)
	}
}

func TestBuildMatchRecordZeroDeaths(t *testing.T) {
	m := sampleMatch()
	m.Info.Participants[1].Deaths = 0

	rec, err := BuildMatchRecord(m, "puuid-alice", stubAssets{})
	if err != nil {
		t.Fatalf("BuildMatchRecord: %v", err)
	}
	// Deathless games divide by 1, not zero: (8+7)/1 = 15.
	if rec.KDA != 15 {
		t.Errorf("KDA = %v, want 15", rec.KDA)
	}
}

func TestBuildMatchRecordItemsAndSpells(t *testing.T) {
	rec, err := BuildMatchRecord(sampleMatch(), "puuid-alice", stubAssets{})
	if err != nil {
		t.Fatalf("BuildMatchRecord: %v", err)
	}

	// Empty slots are dropped; filled slots keep their order.
	if len(rec.Items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(rec.Items), rec.Items)
	}
	if rec.Items[0].ID != 3089 || rec.Items[1].ID != 3363 {
		t.Errorf("item order: %+v", rec.Items)
	}
	if rec.Items[0].Name != "Item 3089" || rec.Items[0].IconURL != "item/3089" {
		t.Errorf("item assets: %+v", rec.Items[0])
	}

	if len(rec.SummonerSpells) != 2 {
		t.Fatalf("expected 2 spells, got %d", len(rec.SummonerSpells))
	}
	if rec.SummonerSpells[0].ID != 4 || rec.SummonerSpells[1].ID != 7 {
		t.Errorf("spells: %+v", rec.SummonerSpells)
	}
}

func TestBuildMatchRecordMissingParticipant(t *testing.T) {
	_, err := BuildMatchRecord(sampleMatch(), "puuid-nobody", stubAssets{})
	if err == nil {
		t.Fatal("expected error for absent puuid")
	}
	if !strings.Contains(err.Error(), "not among participants") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildMatchRecordRejectsMalformed(t *testing.T) {
	zeroDur := sampleMatch()
	zeroDur.Info.GameDuration = 0
	if _, err := BuildMatchRecord(zeroDur, "puuid-alice", stubAssets{}); err == nil {
		t.Error("expected error for non-positive duration")
	}

	negKills := sampleMatch()
	negKills.Info.Participants[1].Kills = -1
	if _, err := BuildMatchRecord(negKills, "puuid-alice", stubAssets{}); err == nil {
		t.Error("expected error for negative kills")
	}
}
