package pipeline

import (
	"math"
	"testing"

	"github.com/pable/go-qb-metrics/internal/model"
)

// makePlay builds a minimal dropback play for context-metric tests.
func makePlay(off, def string, epa float64, success, hit, sack bool) model.Play {
	return model.Play{
		Season:  2023,
		OffTeam: off,
		DefTeam: def,
		Passer:  "A.Passer",
		Down:    1, YardsToGo: 10, SecondsRemaining: 1800,
		EPA:     epa,
		Success: success,
		QBHit:   hit,
		Sack:    sack,
		AirYards: math.NaN(),
		CPOE:     math.NaN(),
	}
}

func TestBuildDefenseMetrics(t *testing.T) {
	plays := []model.Play{
		makePlay("KC", "BUF", 0.5, true, true, false),
		makePlay("KC", "BUF", -0.1, false, false, false),
		makePlay("KC", "BUF", 0.2, true, true, true),
		makePlay("KC", "NYJ", 1.0, true, false, false),
	}

	def := BuildDefenseMetrics(plays)

	buf, ok := def["BUF"]
	if !ok {
		t.Fatal("BUF missing from defense metrics")
	}
	if buf.Dropbacks != 3 {
		t.Errorf("BUF dropbacks: want 3, got %d", buf.Dropbacks)
	}
	wantEPA := (0.5 - 0.1 + 0.2) / 3
	if math.Abs(buf.EPAPerDropback-wantEPA) > 1e-9 {
		t.Errorf("BUF EPA/dropback: want %f, got %f", wantEPA, buf.EPAPerDropback)
	}
	if math.Abs(buf.SuccessRateAllowed-2.0/3.0) > 1e-9 {
		t.Errorf("BUF success rate: want 0.667, got %f", buf.SuccessRateAllowed)
	}
	if math.Abs(buf.PressureRate-2.0/3.0) > 1e-9 {
		t.Errorf("BUF pressure rate: want 0.667, got %f", buf.PressureRate)
	}

	nyj := def["NYJ"]
	if nyj.Dropbacks != 1 || nyj.EPAPerDropback != 1.0 {
		t.Errorf("NYJ metrics wrong: %+v", nyj)
	}
}

func TestBuildOLMetrics(t *testing.T) {
	plays := []model.Play{
		makePlay("KC", "BUF", 0.5, true, true, false),
		makePlay("KC", "BUF", -0.1, false, false, true),
		makePlay("KC", "BUF", 0.2, true, false, false),
		makePlay("KC", "BUF", 0.0, false, true, true),
	}

	ol := BuildOLMetrics(plays)

	kc, ok := ol["KC"]
	if !ok {
		t.Fatal("KC missing from OL metrics")
	}
	if kc.Dropbacks != 4 {
		t.Errorf("KC dropbacks: want 4, got %d", kc.Dropbacks)
	}
	if kc.PressureRate != 0.5 {
		t.Errorf("KC pressure rate: want 0.5, got %f", kc.PressureRate)
	}
	if kc.SackRate != 0.5 {
		t.Errorf("KC sack rate: want 0.5, got %f", kc.SackRate)
	}
}

// TestContextMetrics_ZeroDropbackTeamAbsent: a team that never shows up in a
// play has no entry at all — not a zero-count one.
func TestContextMetrics_ZeroDropbackTeamAbsent(t *testing.T) {
	plays := []model.Play{makePlay("KC", "BUF", 0.5, true, false, false)}

	def := BuildDefenseMetrics(plays)
	ol := BuildOLMetrics(plays)

	if _, ok := def["MIA"]; ok {
		t.Error("MIA should be absent from defense metrics")
	}
	if _, ok := ol["MIA"]; ok {
		t.Error("MIA should be absent from OL metrics")
	}
	// The offense shows up only on the OL side and vice versa.
	if _, ok := def["KC"]; ok {
		t.Error("KC faced no dropbacks, should be absent from defense metrics")
	}
	if _, ok := ol["BUF"]; ok {
		t.Error("BUF had no offensive dropbacks, should be absent from OL metrics")
	}
}

// TestContextMetrics_EmptySeason: empty input is not an error at this stage.
func TestContextMetrics_EmptySeason(t *testing.T) {
	def := BuildDefenseMetrics(nil)
	ol := BuildOLMetrics(nil)
	if len(def) != 0 || len(ol) != 0 {
		t.Errorf("expected empty mappings, got %d defense / %d OL entries", len(def), len(ol))
	}
}
