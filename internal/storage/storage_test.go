package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/kashtan/go-lol-metrics/internal/analytics"
	"github.com/kashtan/go-lol-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func storedPlayer(t *testing.T, db *DB, name string) *model.Player {
	t.Helper()
	p := &model.Player{
		PUUID:          "puuid-" + name,
		Name:           name,
		Tag:            "RU1",
		Level:          120,
		ProfileIconURL: "https://ddragon.example/icon/1.png",
		UpdatedAt:      time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := db.UpsertPlayer(p); err != nil {
		t.Fatalf("UpsertPlayer %s: %v", name, err)
	}
	return p
}

func matchRecord(playerID int64, matchID string, day int) model.MatchRecord {
	return model.MatchRecord{
		PlayerID:     playerID,
		MatchID:      matchID,
		GameDate:     time.Date(2025, 3, day, 18, 0, 0, 0, time.UTC),
		GameDuration: 1800,
		ChampionName: "Ahri",
		Win:          true,
		Kills:        8, Deaths: 3, Assists: 7, KDA: 5.0,
		GoldEarned: 12000, GoldPerMin: 400,
		CS: 180, CSPerMin: 6.0,
		TotalDamage: 15000, DamagePerMin: 500,
		VisionScore: 24,
		Items: []model.Item{
			{ID: 3089, Name: "Rabadon's Deathcap", IconURL: "https://ddragon.example/item/3089.png"},
		},
		SummonerSpells: []model.SummonerSpell{
			{ID: 4, IconURL: "https://ddragon.example/spell/SummonerFlash.png"},
		},
	}
}

func TestUpsertPlayerBackfillsIDAndRefreshes(t *testing.T) {
	db := openMemDB(t)

	p := storedPlayer(t, db, "Alice")
	if p.ID == 0 {
		t.Fatal("expected UpsertPlayer to backfill ID")
	}

	// Second upsert with the same PUUID updates in place.
	again := &model.Player{PUUID: p.PUUID, Name: "Alice", Tag: "RU1", Level: 121, UpdatedAt: time.Now()}
	if err := db.UpsertPlayer(again); err != nil {
		t.Fatalf("second UpsertPlayer: %v", err)
	}
	if again.ID != p.ID {
		t.Errorf("expected stable ID across upserts, got %d then %d", p.ID, again.ID)
	}

	players, err := db.ListPlayers()
	if err != nil {
		t.Fatalf("ListPlayers: %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("expected 1 player, got %d", len(players))
	}
	if players[0].Level != 121 {
		t.Errorf("expected level refreshed to 121, got %d", players[0].Level)
	}
}

func TestGetPlayerByName(t *testing.T) {
	db := openMemDB(t)
	storedPlayer(t, db, "Alice")

	p, err := db.GetPlayerByName("alice")
	if err != nil {
		t.Fatalf("GetPlayerByName: %v", err)
	}
	if p == nil {
		t.Fatal("expected case-insensitive name match")
	}
	if p.RiotID() != "Alice#RU1" {
		t.Errorf("unexpected riot id %s", p.RiotID())
	}

	missing, err := db.GetPlayerByName("nobody")
	if err != nil {
		t.Fatalf("GetPlayerByName no-match: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown player")
	}
}

func TestMatchRoundTrip(t *testing.T) {
	db := openMemDB(t)
	p := storedPlayer(t, db, "Alice")

	matches := []model.MatchRecord{
		matchRecord(p.ID, "RU_1001", 1),
		matchRecord(p.ID, "RU_1002", 2),
	}
	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}

	got, err := db.GetPlayerMatches(p.ID)
	if err != nil {
		t.Fatalf("GetPlayerMatches: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	// Ordered by game_date DESC, so the day-2 match comes first.
	if got[0].MatchID != "RU_1002" {
		t.Errorf("expected RU_1002 first (newest), got %s", got[0].MatchID)
	}

	m := got[1]
	if m.KDA != 5.0 || m.CSPerMin != 6.0 || !m.Win {
		t.Errorf("match fields mismatch: %+v", m)
	}
	if !m.GameDate.Equal(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("game date mismatch: %v", m.GameDate)
	}
	if len(m.Items) != 1 || m.Items[0].Name != "Rabadon's Deathcap" {
		t.Errorf("items did not round-trip: %+v", m.Items)
	}
	if len(m.SummonerSpells) != 1 || m.SummonerSpells[0].ID != 4 {
		t.Errorf("summoner spells did not round-trip: %+v", m.SummonerSpells)
	}
	if m.IsAnomaly || m.AnomalyReason != "" {
		t.Errorf("fresh match should carry no anomaly flag: %+v", m)
	}
}

func TestInsertMatchesIdempotent(t *testing.T) {
	db := openMemDB(t)
	p := storedPlayer(t, db, "Alice")

	m := matchRecord(p.ID, "RU_1001", 1)
	if err := db.InsertMatches([]model.MatchRecord{m}); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	m.Kills = 12
	if err := db.InsertMatches([]model.MatchRecord{m}); err != nil {
		t.Fatalf("second InsertMatches should replace, not error: %v", err)
	}

	n, err := db.CountPlayerMatches(p.ID)
	if err != nil {
		t.Fatalf("CountPlayerMatches: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 match after replace, got %d", n)
	}
}

func TestUpdateMatchAnomaliesOverwrites(t *testing.T) {
	db := openMemDB(t)
	p := storedPlayer(t, db, "Alice")

	if err := db.InsertMatches([]model.MatchRecord{matchRecord(p.ID, "RU_1001", 1)}); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}

	flag := []analytics.AnomalyVerdict{
		{PlayerID: p.ID, MatchID: "RU_1001", IsAnomaly: true, Reason: "Many deaths (20)"},
	}
	if err := db.UpdateMatchAnomalies(flag); err != nil {
		t.Fatalf("UpdateMatchAnomalies: %v", err)
	}

	got, _ := db.GetPlayerMatches(p.ID)
	if !got[0].IsAnomaly || got[0].AnomalyReason != "Many deaths (20)" {
		t.Fatalf("expected flagged match, got %+v", got[0])
	}
	n, _ := db.CountAnomalies()
	if n != 1 {
		t.Errorf("expected 1 anomaly counted, got %d", n)
	}

	// A later clean verdict clears the stored flag.
	clear := []analytics.AnomalyVerdict{
		{PlayerID: p.ID, MatchID: "RU_1001", IsAnomaly: false},
	}
	if err := db.UpdateMatchAnomalies(clear); err != nil {
		t.Fatalf("UpdateMatchAnomalies clear: %v", err)
	}
	got, _ = db.GetPlayerMatches(p.ID)
	if got[0].IsAnomaly || got[0].AnomalyReason != "" {
		t.Fatalf("expected cleared match, got %+v", got[0])
	}
}

func TestDeleteAndPruneMatches(t *testing.T) {
	db := openMemDB(t)
	p := storedPlayer(t, db, "Alice")

	var matches []model.MatchRecord
	for day := 1; day <= 7; day++ {
		matches = append(matches, matchRecord(p.ID, fmt.Sprintf("RU_%d", day), day))
	}
	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}

	if err := db.PruneMatches(p.ID, 5); err != nil {
		t.Fatalf("PruneMatches: %v", err)
	}
	got, _ := db.GetPlayerMatches(p.ID)
	if len(got) != 5 {
		t.Fatalf("expected 5 matches after prune, got %d", len(got))
	}
	// Newest five survive.
	if got[0].MatchID != "RU_7" || got[4].MatchID != "RU_3" {
		t.Errorf("prune kept wrong window: first=%s last=%s", got[0].MatchID, got[4].MatchID)
	}

	if err := db.DeletePlayerMatches(p.ID); err != nil {
		t.Fatalf("DeletePlayerMatches: %v", err)
	}
	n, _ := db.CountPlayerMatches(p.ID)
	if n != 0 {
		t.Errorf("expected empty history after delete, got %d", n)
	}
}

func TestListAllAndAnomalousMatches(t *testing.T) {
	db := openMemDB(t)
	alice := storedPlayer(t, db, "Alice")
	bob := storedPlayer(t, db, "Bob")

	db.InsertMatches([]model.MatchRecord{
		matchRecord(alice.ID, "RU_A1", 1),
		matchRecord(bob.ID, "RU_B1", 2),
	})
	db.UpdateMatchAnomalies([]analytics.AnomalyVerdict{
		{PlayerID: bob.ID, MatchID: "RU_B1", IsAnomaly: true, Reason: "Very high KDA (10)"},
	})

	all, err := db.ListAllMatches()
	if err != nil {
		t.Fatalf("ListAllMatches: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 joined rows, got %d", len(all))
	}
	if all[0].PlayerName != "Alice" || all[1].PlayerName != "Bob" {
		t.Errorf("rows not ordered by player name: %s, %s", all[0].PlayerName, all[1].PlayerName)
	}

	flagged, err := db.ListAnomalousMatches()
	if err != nil {
		t.Fatalf("ListAnomalousMatches: %v", err)
	}
	if len(flagged) != 1 {
		t.Fatalf("expected 1 flagged row, got %d", len(flagged))
	}
	if flagged[0].PlayerName != "Bob" || flagged[0].Match.AnomalyReason != "Very high KDA (10)" {
		t.Errorf("unexpected flagged row: %+v", flagged[0])
	}
}
