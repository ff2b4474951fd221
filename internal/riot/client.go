// Package riot provides a minimal client for the Riot Games API
// (account-v1, summoner-v4, match-v5) plus Data Dragon asset lookups.
package riot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client is a minimal Riot Games API client. Account and match endpoints
// live on a regional routing host (europe, americas, asia) while summoner
// endpoints live on a platform host (ru, euw1, na1, ...).
type Client struct {
	apiKey   string
	platform string
	route    string
	http     *http.Client
}

// NewClient returns a Riot API client authenticated with the given API key.
func NewClient(apiKey, platform, route string) *Client {
	return &Client{
		apiKey:   apiKey,
		platform: platform,
		route:    route,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Account holds the fields we need from /riot/account/v1.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner holds the fields we need from /lol/summoner/v4.
type Summoner struct {
	ProfileIconID int `json:"profileIconId"`
	SummonerLevel int `json:"summonerLevel"`
}

// Match is one game from /lol/match/v5/matches/{id}.
type Match struct {
	Metadata struct {
		MatchID string `json:"matchId"`
	} `json:"metadata"`
	Info struct {
		GameCreation int64         `json:"gameCreation"` // unix millis
		GameDuration int           `json:"gameDuration"` // seconds
		Participants []Participant `json:"participants"`
	} `json:"info"`
}

// Participant is one player's line in a match.
type Participant struct {
	PUUID        string `json:"puuid"`
	ChampionName string `json:"championName"`
	Win          bool   `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	GoldEarned                  int `json:"goldEarned"`
	TotalMinionsKilled          int `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int `json:"neutralMinionsKilled"`
	TotalDamageDealtToChampions int `json:"totalDamageDealtToChampions"`
	DamageDealtToObjectives     int `json:"damageDealtToObjectives"`

	VisionScore         int `json:"visionScore"`
	WardsPlaced         int `json:"wardsPlaced"`
	DetectorWardsPlaced int `json:"detectorWardsPlaced"`

	Item0 int `json:"item0"`
	Item1 int `json:"item1"`
	Item2 int `json:"item2"`
	Item3 int `json:"item3"`
	Item4 int `json:"item4"`
	Item5 int `json:"item5"`
	Item6 int `json:"item6"`

	Summoner1ID int `json:"summoner1Id"`
	Summoner2ID int `json:"summoner2Id"`

	Challenges struct {
		KillParticipation    float64 `json:"killParticipation"`
		TeamDamagePercentage float64 `json:"teamDamagePercentage"`
	} `json:"challenges"`
}

// ItemIDs returns the seven inventory slots in order.
func (p *Participant) ItemIDs() []int {
	return []int{p.Item0, p.Item1, p.Item2, p.Item3, p.Item4, p.Item5, p.Item6}
}

// CS returns total creep score, lane plus jungle minions.
func (p *Participant) CS() int {
	return p.TotalMinionsKilled + p.NeutralMinionsKilled
}

func (c *Client) platformHost() string {
	return fmt.Sprintf("https://%s.api.riotgames.com", c.platform)
}

func (c *Client) routeHost() string {
	return fmt.Sprintf("https://%s.api.riotgames.com", c.route)
}

// get performs an authenticated GET request against the Riot API and
// JSON-decodes the response body into out.
func (c *Client) get(rawURL string, out interface{}) error {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", rawURL, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetAccount resolves a Riot ID (game name plus tag line) to an account.
func (c *Client) GetAccount(gameName, tagLine string) (*Account, error) {
	var a Account
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.routeHost(), url.PathEscape(gameName), url.PathEscape(tagLine))
	if err := c.get(u, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetSummoner looks up platform-level summoner data by PUUID.
func (c *Client) GetSummoner(puuid string) (*Summoner, error) {
	var s Summoner
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.platformHost(), puuid)
	if err := c.get(u, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetMatchIDs returns up to count recent match IDs for a PUUID, newest first.
func (c *Client) GetMatchIDs(puuid string, count int) ([]string, error) {
	var ids []string
	u := fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d",
		c.routeHost(), puuid, count)
	if err := c.get(u, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetMatch returns full details for a single match.
func (c *Client) GetMatch(matchID string) (*Match, error) {
	var m Match
	u := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.routeHost(), matchID)
	if err := c.get(u, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
