// Package nflfeed fetches raw play-by-play records from the nflverse data
// releases. It is a pass-through adapter: it downloads one season, keeps the
// pass-dropback rows, and hands them to the pipeline unchanged. Retries and
// timeouts live here, never in the core.
package nflfeed

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/pable/go-qb-metrics/internal/model"
)

// DefaultBaseURL is the nflverse play-by-play release root. One gzipped CSV
// per season lives under it, e.g. play_by_play_2023.csv.gz.
const DefaultBaseURL = "https://github.com/nflverse/nflverse-data/releases/download/pbp"

// Client downloads and parses nflverse play-by-play CSVs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a feed client with a download-sized timeout.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientWithBaseURL returns a client pointed at an alternate release root
// (test servers, mirrors).
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// SeasonPlays downloads the season's play-by-play CSV and returns its
// dropback plays. Rows that are not dropbacks, name no passer, or carry no
// EPA are skipped — they cannot contribute to any downstream metric.
func (c *Client) SeasonPlays(ctx context.Context, season int) ([]model.Play, error) {
	u := fmt.Sprintf("%s/play_by_play_%d.csv.gz", c.baseURL, season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("nflfeed: new request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nflfeed: fetch season %d: %w", season, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("nflfeed: no play-by-play release for season %d", season)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("nflfeed: HTTP %d: %s", resp.StatusCode, body)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nflfeed: gunzip: %w", err)
	}
	defer gz.Close()

	return ParsePlays(gz, season)
}

// ParsePlays reads nflverse play-by-play CSV from r and returns the dropback
// plays for the given season. Columns are located by header name; the feed
// reorders and appends columns between releases, so positions are never
// assumed.
func ParsePlays(r io.Reader, season int) ([]model.Play, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("nflfeed: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{
		"qb_dropback", "posteam", "defteam", "passer_player_name",
		"down", "ydstogo", "game_seconds_remaining", "score_differential",
		"epa", "success", "qb_hit", "sack",
		"yards_gained", "air_yards", "cpoe", "touchdown", "interception",
	} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("nflfeed: column %q missing from feed", required)
		}
	}

	field := func(rec []string, name string) string { return rec[col[name]] }

	var plays []model.Play
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("nflfeed: read row: %w", err)
		}

		if parseFlag(field(rec, "qb_dropback")) != 1 {
			continue
		}
		passer := field(rec, "passer_player_name")
		if passer == "" || passer == "NA" {
			continue
		}
		epa := parseFloat(field(rec, "epa"))
		if math.IsNaN(epa) {
			continue
		}

		plays = append(plays, model.Play{
			Season:           season,
			OffTeam:          field(rec, "posteam"),
			DefTeam:          field(rec, "defteam"),
			Passer:           passer,
			Down:             int(parseFloat(field(rec, "down"))),
			YardsToGo:        int(parseFloat(field(rec, "ydstogo"))),
			SecondsRemaining: int(parseFloat(field(rec, "game_seconds_remaining"))),
			ScoreDiff:        int(parseFloat(field(rec, "score_differential"))),
			EPA:              epa,
			Success:          parseFlag(field(rec, "success")) == 1,
			QBHit:            parseFlag(field(rec, "qb_hit")) == 1,
			Sack:             parseFlag(field(rec, "sack")) == 1,
			YardsGained:      zeroIfNaN(parseFloat(field(rec, "yards_gained"))),
			AirYards:         parseFloat(field(rec, "air_yards")),
			CPOE:             parseFloat(field(rec, "cpoe")),
			Touchdown:        parseFlag(field(rec, "touchdown")) == 1,
			Interception:     parseFlag(field(rec, "interception")) == 1,
		})
	}
	return plays, nil
}

// parseFloat returns NaN for empty or "NA" fields — the feed's two spellings
// of a missing value.
func parseFloat(s string) float64 {
	if s == "" || s == "NA" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseFlag reads the feed's 0/1 indicator columns, which arrive as "0",
// "1", "0.0", or "1.0" depending on the release.
func parseFlag(s string) int {
	v := parseFloat(s)
	if math.IsNaN(v) {
		return 0
	}
	return int(v)
}

func zeroIfNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
