// Package aggregator computes the season-level summary views over normalized
// dropback plays. The three views are independent: each walks the same input
// slice with its own accumulators, so nothing is shared or mutated between
// them.
package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-qb-metrics/internal/model"
)

// MinSummaryDropbacks is the retention threshold for the season EPA summary:
// passers below it are dropped after aggregation. It is stricter than the
// play-level qualification threshold, so every summary row belongs to a
// qualified passer but not every qualified passer gets a summary row.
const MinSummaryDropbacks = 200

// SeasonSummaries groups normalized plays by (season, passer), computes the
// adjusted season metrics and the clutch/non-clutch split, and retains only
// passers with at least MinSummaryDropbacks dropbacks.
//
// The clutch and non-clutch splits are merged back onto the summary as a
// left join: a passer with zero plays on one side of the partition carries a
// nil split there, never a zero-valued one.
//
// Rows come back sorted by (season, passer); each key appears exactly once.
// Callers apply their own presentation ordering.
func SeasonSummaries(plays []model.NormalizedPlay) []model.SeasonSummary {
	type key struct {
		season int
		passer string
	}
	type accum struct {
		dropbacks int
		epaSum    float64

		defEPASum      float64
		defSuccessSum  float64
		defPressureSum float64
		olPressureSum  float64
		olSackSum      float64

		clutchPlays     int
		clutchAdjSum    float64
		nonClutchPlays  int
		nonClutchAdjSum float64
	}

	accums := make(map[key]*accum)
	for _, p := range plays {
		k := key{p.Season, p.Passer}
		a := accums[k]
		if a == nil {
			a = &accum{}
			accums[k] = a
		}
		a.dropbacks++
		a.epaSum += p.EPA
		a.defEPASum += p.Defense.EPAPerDropback
		a.defSuccessSum += p.Defense.SuccessRateAllowed
		a.defPressureSum += p.Defense.PressureRate
		a.olPressureSum += p.OLine.PressureRate
		a.olSackSum += p.OLine.SackRate
		if p.Clutch {
			a.clutchPlays++
			a.clutchAdjSum += p.AdjEPA
		} else {
			a.nonClutchPlays++
			a.nonClutchAdjSum += p.AdjEPA
		}
	}

	out := make([]model.SeasonSummary, 0, len(accums))
	for k, a := range accums {
		if a.dropbacks < MinSummaryDropbacks {
			continue
		}
		n := float64(a.dropbacks)
		s := model.SeasonSummary{
			Season:    k.season,
			Passer:    k.passer,
			Dropbacks: a.dropbacks,
			TotalEPA:  a.epaSum,
			AvgEPA:    a.epaSum / n,

			AvgDefEPAAllowed:         a.defEPASum / n,
			AvgDefSuccessRateAllowed: a.defSuccessSum / n,
			AvgDefPressureRate:       a.defPressureSum / n,
			AvgOLPressureRate:        a.olPressureSum / n,
			AvgOLSackRate:            a.olSackSum / n,
		}
		s.EPAVsExpectation = s.AvgEPA - s.AvgDefEPAAllowed
		s.EPAVsDefAndOL = s.EPAVsExpectation / (1 + s.AvgOLPressureRate)

		if a.clutchPlays > 0 {
			s.Clutch = &model.SplitStats{
				Plays:       a.clutchPlays,
				TotalAdjEPA: a.clutchAdjSum,
				AvgAdjEPA:   a.clutchAdjSum / float64(a.clutchPlays),
			}
		}
		if a.nonClutchPlays > 0 {
			s.NonClutch = &model.SplitStats{
				Plays:       a.nonClutchPlays,
				TotalAdjEPA: a.nonClutchAdjSum,
				AvgAdjEPA:   a.nonClutchAdjSum / float64(a.nonClutchPlays),
			}
		}
		if s.Clutch != nil && s.NonClutch != nil {
			diff := s.Clutch.AvgAdjEPA - s.NonClutch.AvgAdjEPA
			s.ClutchDiff = &diff
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Passer < out[j].Passer
	})
	return out
}

// SeasonTotals groups normalized plays by (season, passer) and sums the raw
// counting stats. No retention threshold is applied here — every qualified
// passer gets a row.
func SeasonTotals(plays []model.NormalizedPlay) []model.SeasonTotals {
	type key struct {
		season int
		passer string
	}
	type accum struct {
		dropbacks     int
		epaSum        float64
		yardsSum      float64
		airYards      nanSum
		cpoe          nanSum
		touchdowns    int
		interceptions int
		successSum    int
	}

	accums := make(map[key]*accum)
	for _, p := range plays {
		k := key{p.Season, p.Passer}
		a := accums[k]
		if a == nil {
			a = &accum{}
			accums[k] = a
		}
		a.dropbacks++
		a.epaSum += p.EPA
		a.yardsSum += p.YardsGained
		a.airYards.add(p.AirYards)
		a.cpoe.add(p.CPOE)
		if p.Touchdown {
			a.touchdowns++
		}
		if p.Interception {
			a.interceptions++
		}
		if p.Success {
			a.successSum++
		}
	}

	out := make([]model.SeasonTotals, 0, len(accums))
	for k, a := range accums {
		out = append(out, model.SeasonTotals{
			Season:        k.season,
			Passer:        k.passer,
			Dropbacks:     a.dropbacks,
			TotalEPA:      a.epaSum,
			TotalYards:    a.yardsSum,
			TotalAirYards: a.airYards.sum,
			AvgCPOE:       a.cpoe.mean(),
			Touchdowns:    a.touchdowns,
			Interceptions: a.interceptions,
			SuccessRate:   float64(a.successSum) / float64(a.dropbacks),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Passer < out[j].Passer
	})
	return out
}

// AdvancedStats computes the per-passer advanced detail view: overall and
// clutch/non-clutch averages of CPOE, adjusted EPA, pass yards, air yards,
// and OL pressure rate faced. A non-empty passer filters the result to that
// passer alone; filtering never changes the values of the rows it keeps.
func AdvancedStats(plays []model.NormalizedPlay, passer string) []model.AdvancedStats {
	type key struct {
		season int
		passer string
	}

	accums := make(map[key]*advAccum)
	clutchAccums := make(map[key]*advAccum)
	nonClutchAccums := make(map[key]*advAccum)

	get := func(m map[key]*advAccum, k key) *advAccum {
		a := m[k]
		if a == nil {
			a = &advAccum{}
			m[k] = a
		}
		return a
	}

	for _, p := range plays {
		k := key{p.Season, p.Passer}
		get(accums, k).add(p)
		if p.Clutch {
			get(clutchAccums, k).add(p)
		} else {
			get(nonClutchAccums, k).add(p)
		}
	}

	out := make([]model.AdvancedStats, 0, len(accums))
	for k, a := range accums {
		if passer != "" && k.passer != passer {
			continue
		}
		s := model.AdvancedStats{
			Season:          k.season,
			Passer:          k.passer,
			AvgCPOE:         a.cpoe.mean(),
			AvgAdjEPA:       a.adjEPASum / float64(a.plays),
			AvgPassYards:    a.yardsSum / float64(a.plays),
			AvgAirYards:     a.airYards.mean(),
			AvgPressureRate: a.pressureSum / float64(a.plays),
		}
		if c := clutchAccums[k]; c != nil {
			s.Clutch = c.split()
		}
		if nc := nonClutchAccums[k]; nc != nil {
			s.NonClutch = nc.split()
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Passer < out[j].Passer
	})
	return out
}

type advAccum struct {
	plays       int
	adjEPASum   float64
	yardsSum    float64
	pressureSum float64
	cpoe        nanSum
	airYards    nanSum
}

func (a *advAccum) add(p model.NormalizedPlay) {
	a.plays++
	a.adjEPASum += p.AdjEPA
	a.yardsSum += p.YardsGained
	a.pressureSum += p.OLine.PressureRate
	a.cpoe.add(p.CPOE)
	a.airYards.add(p.AirYards)
}

func (a *advAccum) split() *model.AdvancedSplit {
	return &model.AdvancedSplit{
		Plays:           a.plays,
		AvgCPOE:         a.cpoe.mean(),
		AvgAdjEPA:       a.adjEPASum / float64(a.plays),
		AvgPassYards:    a.yardsSum / float64(a.plays),
		AvgAirYards:     a.airYards.mean(),
		AvgPressureRate: a.pressureSum / float64(a.plays),
	}
}

// nanSum accumulates values skipping NaN, so feed fields that are missing on
// some plays (CPOE, air yards) don't poison sums and means.
type nanSum struct {
	sum float64
	n   int
}

func (s *nanSum) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.sum += v
	s.n++
}

// mean returns 0 when no valid samples were seen.
func (s *nanSum) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}
