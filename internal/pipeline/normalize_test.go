package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-qb-metrics/internal/model"
)

// seasonPlays builds n identical dropbacks for one passer against the given
// teams.
func seasonPlays(passer, off, def string, n int) []model.Play {
	plays := make([]model.Play, n)
	for i := range plays {
		plays[i] = model.Play{
			Season:  2023,
			OffTeam: off, DefTeam: def,
			Passer: passer,
			Down:   1, YardsToGo: 10, SecondsRemaining: 1800,
			EPA:      0.1,
			AirYards: math.NaN(), CPOE: math.NaN(),
		}
	}
	return plays
}

func normalizeAll(t *testing.T, plays []model.Play) []model.NormalizedPlay {
	t.Helper()
	normalized, err := Normalize(plays, BuildDefenseMetrics(plays), BuildOLMetrics(plays))
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return normalized
}

// TestNormalize_QualificationThreshold: exactly at the threshold qualifies,
// one below does not.
func TestNormalize_QualificationThreshold(t *testing.T) {
	plays := append(
		seasonPlays("A.Qualified", "KC", "BUF", MinQualifyingDropbacks),
		seasonPlays("B.Backup", "KC", "BUF", MinQualifyingDropbacks-1)...,
	)

	normalized := normalizeAll(t, plays)

	passers := make(map[string]int)
	for _, p := range normalized {
		passers[p.Passer]++
	}
	if passers["A.Qualified"] != MinQualifyingDropbacks {
		t.Errorf("A.Qualified plays: want %d, got %d", MinQualifyingDropbacks, passers["A.Qualified"])
	}
	if _, ok := passers["B.Backup"]; ok {
		t.Error("B.Backup is below the qualification threshold and must not appear")
	}
}

// TestNormalize_ClutchFlag: the clutch classification is deterministic in
// (down, yards to go, seconds remaining, score differential).
func TestNormalize_ClutchFlag(t *testing.T) {
	cases := []struct {
		down, ytg, secs, diff int
		want                  bool
	}{
		{3, 7, 300, 7, true},
		{4, 7, 300, -7, true},
		{3, 10, 120, 0, true},
		{2, 7, 300, 7, false},   // wrong down
		{3, 6, 300, 7, false},   // short yardage
		{3, 7, 301, 7, false},   // too early
		{3, 7, 300, 8, false},   // not a one-score game
		{3, 7, 300, -8, false},
	}
	for _, c := range cases {
		got := model.IsClutch(c.down, c.ytg, c.secs, c.diff)
		if got != c.want {
			t.Errorf("IsClutch(%d, %d, %d, %d): want %v, got %v",
				c.down, c.ytg, c.secs, c.diff, c.want, got)
		}
	}
}

// TestNormalize_AdjustedEPA: epa=0.5, def allows 0.1/dropback, OL pressure
// rate 0.25 → (0.5−0.1)/1.25 = 0.32.
func TestNormalize_AdjustedEPA(t *testing.T) {
	got := model.AdjustEPA(0.5, 0.1, 0.25)
	if math.Abs(got-0.32) > 1e-9 {
		t.Errorf("AdjustEPA: want 0.32, got %f", got)
	}
}

// TestNormalize_AdjustedEPA_DenominatorBound: for any pressure rate in
// [0,1] the denominator is at least 1, so the result is finite.
func TestNormalize_AdjustedEPA_DenominatorBound(t *testing.T) {
	for _, rate := range []float64{0, 0.25, 0.5, 1} {
		got := model.AdjustEPA(1.0, 0, rate)
		if math.IsInf(got, 0) || math.IsNaN(got) {
			t.Errorf("AdjustEPA with pressure rate %f not finite: %f", rate, got)
		}
		if got > 1.0 {
			t.Errorf("AdjustEPA with pressure rate %f should shrink the value, got %f", rate, got)
		}
	}
}

// TestNormalize_JoinedContext: each play carries the metrics of its own
// defense and offense.
func TestNormalize_JoinedContext(t *testing.T) {
	plays := append(
		seasonPlays("A.Qualified", "KC", "BUF", MinQualifyingDropbacks),
		seasonPlays("C.Rival", "DAL", "PHI", MinQualifyingDropbacks)...,
	)

	normalized := normalizeAll(t, plays)
	for _, p := range normalized {
		if p.Defense.Team != p.DefTeam {
			t.Fatalf("play vs %s joined defense metrics of %s", p.DefTeam, p.Defense.Team)
		}
		if p.OLine.Team != p.OffTeam {
			t.Fatalf("play by %s joined OL metrics of %s", p.OffTeam, p.OLine.Team)
		}
	}
}

// TestNormalize_MissingContextExcluded: plays whose team has no context
// entry neither count toward qualification nor appear in the output.
func TestNormalize_MissingContextExcluded(t *testing.T) {
	plays := seasonPlays("A.Qualified", "KC", "BUF", MinQualifyingDropbacks)
	def := BuildDefenseMetrics(plays)
	ol := BuildOLMetrics(plays)

	// An extra play naming a team absent from the context maps.
	orphans := seasonPlays("A.Qualified", "KC", "MIA", 1)
	normalized, err := Normalize(append(plays, orphans...), def, ol)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(normalized) != MinQualifyingDropbacks {
		t.Errorf("normalized plays: want %d, got %d", MinQualifyingDropbacks, len(normalized))
	}
	for _, p := range normalized {
		if p.DefTeam == "MIA" {
			t.Error("play against context-less team must be excluded")
		}
	}
}

// TestNormalize_EmptySeason: raises NoDataError, not an empty result.
func TestNormalize_EmptySeason(t *testing.T) {
	_, err := Normalize(nil, map[string]model.DefenseMetrics{}, map[string]model.OLMetrics{})
	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected NoDataError, got %v", err)
	}
}

// TestNormalize_NoQualifiedPassers: plays exist but nobody reaches the
// threshold.
func TestNormalize_NoQualifiedPassers(t *testing.T) {
	plays := seasonPlays("B.Backup", "KC", "BUF", 10)
	_, err := Normalize(plays, BuildDefenseMetrics(plays), BuildOLMetrics(plays))
	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected NoDataError, got %v", err)
	}
	if noData.Season != 2023 {
		t.Errorf("NoDataError season: want 2023, got %d", noData.Season)
	}
}
