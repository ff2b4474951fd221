package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kashtan/go-lol-metrics/internal/ingest"
	"github.com/kashtan/go-lol-metrics/internal/model"
	"github.com/kashtan/go-lol-metrics/internal/riot"
	"github.com/kashtan/go-lol-metrics/internal/storage"
)

// requestPacing spaces out per-match API calls to stay inside the Riot
// development rate limits.
const requestPacing = 500 * time.Millisecond

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger()

// extract command flags, shared with the run command.
var (
	extractRoster string
	extractRegion string
	extractRoute  string
	extractCount  int
)

// rosterFile is the schema for --roster JSON files.
type rosterFile struct {
	Players []rosterEntry `json:"players"`
}

type rosterEntry struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch roster match history from the Riot API into local storage",
	Long: `Resolves each roster member's Riot ID, fetches their recent ranked
matches, and stores the derived per-match metrics.

The Riot API key is read from the RIOT_API_KEY environment variable
(a .env file in the working directory is honored).

Example roster file:
  {"players": [{"name": "Faker", "tag": "KR1"}, {"name": "Uzi", "tag": "CN1"}]}`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	addExtractFlags(extractCmd)
	_ = extractCmd.MarkFlagRequired("roster")
}

// addExtractFlags registers the fetch flags on cmd so extract and run share
// one definition.
func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&extractRoster, "roster", "", "path to roster JSON file (required)")
	cmd.Flags().StringVar(&extractRegion, "region", "ru", "platform region (ru, euw1, na1, ...)")
	cmd.Flags().StringVar(&extractRoute, "route", "europe", "regional route (europe, americas, asia)")
	cmd.Flags().IntVar(&extractCount, "count", 50, "matches to keep per player")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return doExtract(db, extractRoster, extractRegion, extractRoute, extractCount)
}

// doExtract is the shared implementation for the extract command.
func doExtract(db *storage.DB, rosterPath, region, route string, count int) error {
	roster, err := loadRoster(rosterPath)
	if err != nil {
		return err
	}
	apiKey, err := loadRiotAPIKey()
	if err != nil {
		return err
	}

	client := riot.NewClient(apiKey, region, route)
	dd := riot.NewDDragon()
	logger.Info().Str("ddragon", dd.Version()).Int("players", len(roster.Players)).
		Msg("starting extraction")

	for _, entry := range roster.Players {
		if err := extractPlayer(db, client, dd, entry, count); err != nil {
			logger.Error().Err(err).Str("player", entry.Name+"#"+entry.Tag).
				Msg("extraction failed")
		}
		time.Sleep(time.Second)
	}

	logger.Info().Msg("extraction complete")
	return nil
}

// extractPlayer refreshes one roster member: resolve identity, wipe the old
// history, and re-fetch the latest matches. Individual bad matches are
// logged and skipped so one malformed payload cannot sink the whole run.
func extractPlayer(db *storage.DB, client *riot.Client, dd *riot.DDragon, entry rosterEntry, count int) error {
	plog := logger.With().Str("player", entry.Name+"#"+entry.Tag).Logger()

	account, err := client.GetAccount(entry.Name, entry.Tag)
	if err != nil {
		return fmt.Errorf("resolve account: %w", err)
	}
	summoner, err := client.GetSummoner(account.PUUID)
	if err != nil {
		return fmt.Errorf("fetch summoner: %w", err)
	}

	player := &model.Player{
		PUUID:          account.PUUID,
		Name:           entry.Name,
		Tag:            entry.Tag,
		Level:          summoner.SummonerLevel,
		ProfileIconURL: dd.ProfileIconURL(summoner.ProfileIconID),
		UpdatedAt:      time.Now(),
	}
	if err := db.UpsertPlayer(player); err != nil {
		return err
	}
	if err := db.DeletePlayerMatches(player.ID); err != nil {
		return fmt.Errorf("clear old matches: %w", err)
	}

	matchIDs, err := client.GetMatchIDs(account.PUUID, count)
	if err != nil {
		return fmt.Errorf("fetch match ids: %w", err)
	}
	plog.Info().Int("matches", len(matchIDs)).Msg("fetching match history")

	var records []model.MatchRecord
	for i, id := range matchIDs {
		match, err := client.GetMatch(id)
		if err != nil {
			plog.Warn().Err(err).Str("match", id).Msg("skipping match")
			continue
		}
		rec, err := ingest.BuildMatchRecord(match, account.PUUID, dd)
		if err != nil {
			plog.Warn().Err(err).Str("match", id).Msg("skipping match")
			continue
		}
		rec.PlayerID = player.ID
		records = append(records, *rec)

		if (i+1)%10 == 0 {
			plog.Info().Int("done", i+1).Int("total", len(matchIDs)).Msg("progress")
		}
		time.Sleep(requestPacing)
	}

	if err := db.InsertMatches(records); err != nil {
		return fmt.Errorf("store matches: %w", err)
	}
	if err := db.PruneMatches(player.ID, count); err != nil {
		return fmt.Errorf("prune matches: %w", err)
	}
	plog.Info().Int("stored", len(records)).Msg("player done")
	return nil
}

func loadRoster(path string) (*rosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var roster rosterFile
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	if len(roster.Players) == 0 {
		return nil, fmt.Errorf("roster %s lists no players", path)
	}
	return &roster, nil
}

// loadRiotAPIKey returns the Riot API key from the RIOT_API_KEY environment
// variable, honoring a .env file in the working directory.
func loadRiotAPIKey() (string, error) {
	_ = godotenv.Load()
	if key := os.Getenv("RIOT_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key: set RIOT_API_KEY or add it to .env")
}
