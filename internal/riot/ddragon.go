package riot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	ddragonBase = "https://ddragon.leagueoflegends.com/cdn"
	versionsURL = "https://ddragon.leagueoflegends.com/api/versions.json"

	// fallbackVersion is used when the versions endpoint is unreachable.
	fallbackVersion = "14.24.1"
)

// championNameFixes maps display names to their Data Dragon asset keys,
// which strip apostrophes and use a few legacy internal names.
var championNameFixes = map[string]string{
	"Kai'Sa":         "Kaisa",
	"Kha'Zix":        "Khazix",
	"Vel'Koz":        "Velkoz",
	"Cho'Gath":       "Chogath",
	"Rek'Sai":        "RekSai",
	"Kog'Maw":        "KogMaw",
	"LeBlanc":        "Leblanc",
	"Wukong":         "MonkeyKing",
	"Nunu & Willump": "Nunu",
	"Renata Glasc":   "Renata",
}

// summonerSpellNames maps summoner spell IDs to Data Dragon asset names.
var summonerSpellNames = map[int]string{
	1:  "SummonerBoost",
	3:  "SummonerExhaust",
	4:  "SummonerFlash",
	6:  "SummonerHaste",
	7:  "SummonerHeal",
	11: "SummonerSmite",
	12: "SummonerTeleport",
	13: "SummonerMana",
	14: "SummonerDot",
	21: "SummonerBarrier",
	32: "SummonerSnowball",
}

// DDragon resolves champion, item, and spell assets against a pinned
// Data Dragon version.
type DDragon struct {
	version string
	http    *http.Client

	itemNames map[string]string
}

// NewDDragon fetches the latest Data Dragon version and returns a resolver
// pinned to it. Falls back to a known-good version when the endpoint is
// unreachable, so extraction works offline from cached asset URLs.
func NewDDragon() *DDragon {
	d := &DDragon{http: &http.Client{Timeout: 10 * time.Second}}
	d.version = d.latestVersion()
	return d
}

// NewDDragonVersion returns a resolver pinned to an explicit version,
// skipping the version lookup entirely.
func NewDDragonVersion(version string) *DDragon {
	return &DDragon{version: version, http: &http.Client{Timeout: 10 * time.Second}}
}

// Version returns the Data Dragon version this resolver is pinned to.
func (d *DDragon) Version() string {
	return d.version
}

func (d *DDragon) latestVersion() string {
	resp, err := d.http.Get(versionsURL)
	if err != nil {
		return fallbackVersion
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fallbackVersion
	}
	var versions []string
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil || len(versions) == 0 {
		return fallbackVersion
	}
	return versions[0]
}

// ChampionIconURL returns the square icon URL for a champion display name.
func (d *DDragon) ChampionIconURL(championName string) string {
	name := championName
	if fixed, ok := championNameFixes[name]; ok {
		name = fixed
	}
	return fmt.Sprintf("%s/%s/img/champion/%s.png", ddragonBase, d.version, name)
}

// ItemIconURL returns the icon URL for an item ID, or empty for an empty slot.
func (d *DDragon) ItemIconURL(itemID int) string {
	if itemID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/%s/img/item/%d.png", ddragonBase, d.version, itemID)
}

// ProfileIconURL returns the icon URL for a summoner profile icon ID.
func (d *DDragon) ProfileIconURL(iconID int) string {
	return fmt.Sprintf("%s/%s/img/profileicon/%d.png", ddragonBase, d.version, iconID)
}

// SpellIconURL returns the icon URL for a summoner spell ID, or empty when
// the spell is unknown.
func (d *DDragon) SpellIconURL(spellID int) string {
	name, ok := summonerSpellNames[spellID]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s/%s/img/spell/%s.png", ddragonBase, d.version, name)
}

// ItemName resolves an item ID to its display name. The item catalog is
// fetched once and cached; lookups fall back to "Item <id>" when the
// catalog is unavailable or the ID is unknown.
func (d *DDragon) ItemName(itemID int) string {
	if itemID <= 0 {
		return ""
	}
	if d.itemNames == nil {
		d.itemNames = d.fetchItemNames()
	}
	if name, ok := d.itemNames[fmt.Sprint(itemID)]; ok {
		return name
	}
	return fmt.Sprintf("Item %d", itemID)
}

func (d *DDragon) fetchItemNames() map[string]string {
	out := make(map[string]string)
	url := fmt.Sprintf("%s/%s/data/en_US/item.json", ddragonBase, d.version)
	resp, err := d.http.Get(url)
	if err != nil {
		return out
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return out
	}
	var catalog struct {
		Data map[string]struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return out
	}
	for id, item := range catalog.Data {
		out[id] = item.Name
	}
	return out
}
