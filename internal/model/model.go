package model

// ---- Raw records from the play-by-play feed ----

// Play is one pass-dropback event as delivered by the feed.
// Immutable once ingested; always scoped to a single season.
//
// AirYards and CPOE are missing on some plays (spikes, throwaways, sacks);
// missing values are represented as NaN and skipped by NaN-aware means
// downstream.
type Play struct {
	Season           int
	OffTeam          string // offense (possession) team id, e.g. "KC"
	DefTeam          string // defense team id
	Passer           string // passer identity, e.g. "P.Mahomes"
	Down             int    // 1–4
	YardsToGo        int
	SecondsRemaining int // game seconds remaining, 3600 → 0
	ScoreDiff        int // offense minus defense at snap

	EPA          float64
	Success      bool
	QBHit        bool
	Sack         bool
	YardsGained  float64
	AirYards     float64 // NaN when missing
	CPOE         float64 // NaN when missing
	Touchdown    bool
	Interception bool
}

// ---- Per-team context metrics ----

// DefenseMetrics describes how a defense performed across all dropbacks it
// faced in a season. Keyed externally by (season, team).
type DefenseMetrics struct {
	Team               string
	EPAPerDropback     float64 // mean EPA allowed
	SuccessRateAllowed float64
	PressureRate       float64 // QB hits / dropbacks faced
	Dropbacks          int
}

// OLMetrics is the offensive-line pass-protection proxy for one offense:
// how often its own passer was hit or sacked.
type OLMetrics struct {
	Team         string
	PressureRate float64 // hits allowed / dropbacks
	SackRate     float64
	Dropbacks    int
}

// ---- Normalized plays ----

// NormalizedPlay is a Play augmented with the context metrics of the two
// teams involved, a clutch classification, and the context-adjusted EPA.
// Only plays thrown by qualified passers with both context entries present
// become NormalizedPlays.
type NormalizedPlay struct {
	Play

	Defense DefenseMetrics
	OLine   OLMetrics

	Clutch bool
	AdjEPA float64
}

// IsClutch reports whether a play happened in a clutch situation:
// 3rd or 4th and long, inside the final five minutes, one-score game.
func IsClutch(down, yardsToGo, secondsRemaining, scoreDiff int) bool {
	if down != 3 && down != 4 {
		return false
	}
	if yardsToGo < 7 {
		return false
	}
	if secondsRemaining > 300 {
		return false
	}
	if scoreDiff < -7 || scoreDiff > 7 {
		return false
	}
	return true
}

// AdjustEPA normalizes a play's EPA for the strength of the defense faced
// and the protection the passer's own line provided. pressureRate is a
// fraction in [0,1], so the denominator is always at least 1.
func AdjustEPA(epa, defEPAPerDropback, olPressureRate float64) float64 {
	return (epa - defEPAPerDropback) / (1 + olPressureRate)
}

// ---- Aggregated season views ----

// SplitStats holds adjusted-EPA aggregates for one side of the clutch /
// non-clutch partition. A nil *SplitStats means the passer had zero plays in
// that partition — which is not the same as a zero-valued one.
type SplitStats struct {
	Plays       int     `json:"plays"`
	TotalAdjEPA float64 `json:"total_adj_epa"`
	AvgAdjEPA   float64 `json:"avg_adj_epa"`
}

// SeasonSummary is the per-passer season row consumed by the cross-QB
// comparison charts. Only passers meeting the summary retention threshold
// are emitted.
type SeasonSummary struct {
	Season int    `json:"season"`
	Passer string `json:"passer"`

	Dropbacks int     `json:"dropbacks"`
	TotalEPA  float64 `json:"total_epa"`
	AvgEPA    float64 `json:"avg_epa"`

	AvgDefEPAAllowed         float64 `json:"avg_def_epa_allowed"`
	AvgDefSuccessRateAllowed float64 `json:"avg_def_success_rate_allowed"`
	AvgDefPressureRate       float64 `json:"avg_def_pressure_rate"`
	AvgOLPressureRate        float64 `json:"avg_ol_pressure_rate"`
	AvgOLSackRate            float64 `json:"avg_ol_sack_rate"`

	EPAVsExpectation float64 `json:"epa_vs_expectation"`
	EPAVsDefAndOL    float64 `json:"epa_vs_def_and_ol"`

	Clutch     *SplitStats `json:"clutch,omitempty"`
	NonClutch  *SplitStats `json:"non_clutch,omitempty"`
	ClutchDiff *float64    `json:"clutch_diff,omitempty"` // clutch avg − non-clutch avg; nil unless both sides present
}

// SeasonTotals is the raw counting-stats view per passer. Unlike
// SeasonSummary it is not subject to the summary retention threshold.
type SeasonTotals struct {
	Season int    `json:"season"`
	Passer string `json:"passer"`

	Dropbacks     int     `json:"dropbacks"`
	TotalEPA      float64 `json:"total_epa"`
	TotalYards    float64 `json:"total_yards"`
	TotalAirYards float64 `json:"total_air_yards"`
	AvgCPOE       float64 `json:"avg_cpoe"`
	Touchdowns    int     `json:"touchdowns"`
	Interceptions int     `json:"interceptions"`
	SuccessRate   float64 `json:"success_rate"`
}

// TDIntRatio returns touchdowns per interception. A passer with zero
// interceptions returns the touchdown count itself.
func (t *SeasonTotals) TDIntRatio() float64 {
	if t.Interceptions == 0 {
		return float64(t.Touchdowns)
	}
	return float64(t.Touchdowns) / float64(t.Interceptions)
}

// AdvancedSplit holds the advanced per-play averages for one side of the
// clutch partition. nil means no plays on that side.
type AdvancedSplit struct {
	Plays           int     `json:"plays"`
	AvgCPOE         float64 `json:"avg_cpoe"`
	AvgAdjEPA       float64 `json:"avg_adj_epa"`
	AvgPassYards    float64 `json:"avg_pass_yards"`
	AvgAirYards     float64 `json:"avg_air_yards"`
	AvgPressureRate float64 `json:"avg_pressure_rate"`
}

// AdvancedStats is the per-passer advanced detail view, overall plus split
// clutch vs non-clutch.
type AdvancedStats struct {
	Season int    `json:"season"`
	Passer string `json:"passer"`

	AvgCPOE         float64 `json:"avg_cpoe"`
	AvgAdjEPA       float64 `json:"avg_adj_epa"`
	AvgPassYards    float64 `json:"avg_pass_yards"`
	AvgAirYards     float64 `json:"avg_air_yards"`
	AvgPressureRate float64 `json:"avg_pressure_rate"`

	Clutch    *AdvancedSplit `json:"clutch,omitempty"`
	NonClutch *AdvancedSplit `json:"non_clutch,omitempty"`
}
