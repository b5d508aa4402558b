package pipeline

import "github.com/pable/go-qb-metrics/internal/model"

// MinQualifyingDropbacks is the minimum season dropback count for a passer
// to be treated as a true quarterback. Plays from passers below this
// threshold never reach any downstream table.
const MinQualifyingDropbacks = 150

// Normalize joins the per-team context metrics onto each play, keeps only
// plays thrown by qualified passers, classifies each play as clutch or not,
// and computes its adjusted EPA.
//
// The context join is a left join in spirit: a play whose defense or offense
// has no context entry cannot be normalized safely, so it is excluded both
// from qualification counting and from the output (its adjusted EPA is
// undefined). In practice every team named by a play in the same input set
// has at least that one dropback on record, so the exclusion only fires when
// the play set and context maps were built from different inputs.
//
// Returns a *NoDataError when the season has no plays or no passer meets the
// qualification threshold.
func Normalize(plays []model.Play, def map[string]model.DefenseMetrics, ol map[string]model.OLMetrics) ([]model.NormalizedPlay, error) {
	if len(plays) == 0 {
		return nil, &NoDataError{Reason: "no play records"}
	}
	season := plays[0].Season

	// Qualification counting over joinable plays only.
	dropbacksByPasser := make(map[string]int)
	for _, p := range plays {
		if _, ok := def[p.DefTeam]; !ok {
			continue
		}
		if _, ok := ol[p.OffTeam]; !ok {
			continue
		}
		dropbacksByPasser[p.Passer]++
	}

	qualified := make(map[string]bool)
	for passer, n := range dropbacksByPasser {
		if n >= MinQualifyingDropbacks {
			qualified[passer] = true
		}
	}
	if len(qualified) == 0 {
		return nil, &NoDataError{Season: season, Reason: "no qualified quarterbacks"}
	}

	out := make([]model.NormalizedPlay, 0, len(plays))
	for _, p := range plays {
		if !qualified[p.Passer] {
			continue
		}
		d, ok := def[p.DefTeam]
		if !ok {
			continue
		}
		o, ok := ol[p.OffTeam]
		if !ok {
			continue
		}
		out = append(out, model.NormalizedPlay{
			Play:    p,
			Defense: d,
			OLine:   o,
			Clutch:  model.IsClutch(p.Down, p.YardsToGo, p.SecondsRemaining, p.ScoreDiff),
			AdjEPA:  model.AdjustEPA(p.EPA, d.EPAPerDropback, o.PressureRate),
		})
	}
	return out, nil
}
