package storage

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/pable/go-qb-metrics/internal/model"
)

// SeasonInfo is a lightweight record for the seasons listing.
type SeasonInfo struct {
	Season    int
	FetchedAt string
	PlayCount int
}

// HasSeason returns true if the season's plays are already stored.
func (db *DB) HasSeason(season int) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM seasons WHERE season = ?", season).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertSeason stores a season's plays, replacing any previous copy of that
// season so re-fetching is idempotent.
func (db *DB) InsertSeason(season int, plays []model.Play) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM plays WHERE season = ?", season); err != nil {
		return fmt.Errorf("clear season %d: %w", season, err)
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO seasons(season, fetched_at, play_count)
		VALUES (?, ?, ?)`,
		season, time.Now().UTC().Format(time.RFC3339), len(plays),
	); err != nil {
		return fmt.Errorf("insert season %d: %w", season, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO plays(
			season, off_team, def_team, passer,
			down, yards_to_go, seconds_remaining, score_diff,
			epa, success, qb_hit, sack,
			yards_gained, air_yards, cpoe, touchdown, interception
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range plays {
		_, err = stmt.Exec(
			p.Season, p.OffTeam, p.DefTeam, p.Passer,
			p.Down, p.YardsToGo, p.SecondsRemaining, p.ScoreDiff,
			p.EPA, boolInt(p.Success), boolInt(p.QBHit), boolInt(p.Sack),
			p.YardsGained, nullFloat(p.AirYards), nullFloat(p.CPOE),
			boolInt(p.Touchdown), boolInt(p.Interception),
		)
		if err != nil {
			return fmt.Errorf("insert play for %s: %w", p.Passer, err)
		}
	}
	return tx.Commit()
}

// SeasonPlays loads a season's plays. Returns an empty slice for a season
// never stored.
func (db *DB) SeasonPlays(season int) ([]model.Play, error) {
	rows, err := db.conn.Query(`
		SELECT season, off_team, def_team, passer,
		       down, yards_to_go, seconds_remaining, score_diff,
		       epa, success, qb_hit, sack,
		       yards_gained, air_yards, cpoe, touchdown, interception
		FROM plays WHERE season = ?`, season)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Play
	for rows.Next() {
		var p model.Play
		var success, qbHit, sack, touchdown, interception int
		var airYards, cpoe sql.NullFloat64
		if err := rows.Scan(
			&p.Season, &p.OffTeam, &p.DefTeam, &p.Passer,
			&p.Down, &p.YardsToGo, &p.SecondsRemaining, &p.ScoreDiff,
			&p.EPA, &success, &qbHit, &sack,
			&p.YardsGained, &airYards, &cpoe, &touchdown, &interception,
		); err != nil {
			return nil, err
		}
		p.Success = success != 0
		p.QBHit = qbHit != 0
		p.Sack = sack != 0
		p.Touchdown = touchdown != 0
		p.Interception = interception != 0
		p.AirYards = floatOrNaN(airYards)
		p.CPOE = floatOrNaN(cpoe)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListSeasons returns stored seasons, newest first.
func (db *DB) ListSeasons() ([]SeasonInfo, error) {
	rows, err := db.conn.Query(`
		SELECT season, fetched_at, play_count
		FROM seasons ORDER BY season DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SeasonInfo
	for rows.Next() {
		var s SeasonInfo
		if err := rows.Scan(&s.Season, &s.FetchedAt, &s.PlayCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSeason removes a stored season and its plays.
func (db *DB) DeleteSeason(season int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM plays WHERE season = ?", season); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM seasons WHERE season = ?", season); err != nil {
		return err
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullFloat maps NaN (the in-memory "missing" marker) to SQL NULL.
func nullFloat(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
