package pipeline

import "github.com/pable/go-qb-metrics/internal/model"

// BuildDefenseMetrics computes per-defense context metrics from one season of
// dropback plays: mean EPA allowed, success rate allowed, and pressure rate
// (hits / dropbacks faced). Teams that faced zero dropbacks are absent from
// the map — there are no zero-count entries. An empty input yields an empty
// map; deciding that "no data" is terminal belongs to the normalizer.
func BuildDefenseMetrics(plays []model.Play) map[string]model.DefenseMetrics {
	type accum struct {
		epaSum     float64
		successSum int
		hitSum     int
		dropbacks  int
	}
	accums := make(map[string]*accum)
	for _, p := range plays {
		a := accums[p.DefTeam]
		if a == nil {
			a = &accum{}
			accums[p.DefTeam] = a
		}
		a.epaSum += p.EPA
		if p.Success {
			a.successSum++
		}
		if p.QBHit {
			a.hitSum++
		}
		a.dropbacks++
	}

	out := make(map[string]model.DefenseMetrics, len(accums))
	for team, a := range accums {
		n := float64(a.dropbacks)
		out[team] = model.DefenseMetrics{
			Team:               team,
			EPAPerDropback:     a.epaSum / n,
			SuccessRateAllowed: float64(a.successSum) / n,
			PressureRate:       float64(a.hitSum) / n,
			Dropbacks:          a.dropbacks,
		}
	}
	return out
}

// BuildOLMetrics computes the offensive-line pass-protection proxy per
// offense: pressure rate (hits allowed / dropbacks) and sack rate. Same
// lifecycle as BuildDefenseMetrics — recomputed fresh per request, empty in
// yields empty out.
func BuildOLMetrics(plays []model.Play) map[string]model.OLMetrics {
	type accum struct {
		hitSum    int
		sackSum   int
		dropbacks int
	}
	accums := make(map[string]*accum)
	for _, p := range plays {
		a := accums[p.OffTeam]
		if a == nil {
			a = &accum{}
			accums[p.OffTeam] = a
		}
		if p.QBHit {
			a.hitSum++
		}
		if p.Sack {
			a.sackSum++
		}
		a.dropbacks++
	}

	out := make(map[string]model.OLMetrics, len(accums))
	for team, a := range accums {
		n := float64(a.dropbacks)
		out[team] = model.OLMetrics{
			Team:         team,
			PressureRate: float64(a.hitSum) / n,
			SackRate:     float64(a.sackSum) / n,
			Dropbacks:    a.dropbacks,
		}
	}
	return out
}
