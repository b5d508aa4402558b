package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-qb-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSummaryTable writes the season EPA summary table, best AvgEPA first.
// If focusPasser is non-empty that row is marked with ">" — marking only,
// every row is always printed.
func PrintSummaryTable(w io.Writer, summaries []model.SeasonSummary, focusPasser string) {
	rows := make([]model.SeasonSummary, len(summaries))
	copy(rows, summaries)
	sort.Slice(rows, func(i, j int) bool { return rows[i].AvgEPA > rows[j].AvgEPA })

	table := newTable(w)
	table.Header(
		" ", "PASSER", "DB", "EPA/DB", "EPA_EXP", "EPA_ADJ",
		"DEF_EPA", "DEF_PRS%", "OL_PRS%", "OL_SACK%",
		"CLUTCH", "CL_ADJ", "NCL_ADJ", "CL_DIFF",
	)
	for _, s := range rows {
		marker := " "
		if focusPasser != "" && s.Passer == focusPasser {
			marker = ">"
		}
		table.Append(
			marker,
			s.Passer,
			strconv.Itoa(s.Dropbacks),
			fmt.Sprintf("%.3f", s.AvgEPA),
			fmt.Sprintf("%.3f", s.EPAVsExpectation),
			fmt.Sprintf("%.3f", s.EPAVsDefAndOL),
			fmt.Sprintf("%.3f", s.AvgDefEPAAllowed),
			fmt.Sprintf("%.1f%%", s.AvgDefPressureRate*100),
			fmt.Sprintf("%.1f%%", s.AvgOLPressureRate*100),
			fmt.Sprintf("%.1f%%", s.AvgOLSackRate*100),
			splitPlays(s.Clutch),
			splitAvg(s.Clutch),
			splitAvg(s.NonClutch),
			diffStr(s.ClutchDiff),
		)
	}
	table.Render()
}

// PrintTotalsTable writes the raw season totals table, most yards first.
func PrintTotalsTable(w io.Writer, totals []model.SeasonTotals, focusPasser string) {
	rows := make([]model.SeasonTotals, len(totals))
	copy(rows, totals)
	sort.Slice(rows, func(i, j int) bool { return rows[i].TotalYards > rows[j].TotalYards })

	table := newTable(w)
	table.Header(
		" ", "PASSER", "DB", "EPA", "YARDS", "AIR_YDS",
		"CPOE", "TD", "INT", "TD:INT", "SUCC%",
	)
	for i := range rows {
		s := &rows[i]
		marker := " "
		if focusPasser != "" && s.Passer == focusPasser {
			marker = ">"
		}
		table.Append(
			marker,
			s.Passer,
			strconv.Itoa(s.Dropbacks),
			fmt.Sprintf("%.1f", s.TotalEPA),
			fmt.Sprintf("%.0f", s.TotalYards),
			fmt.Sprintf("%.0f", s.TotalAirYards),
			fmt.Sprintf("%.2f", s.AvgCPOE),
			strconv.Itoa(s.Touchdowns),
			strconv.Itoa(s.Interceptions),
			fmt.Sprintf("%.1f", s.TDIntRatio()),
			fmt.Sprintf("%.0f%%", s.SuccessRate*100),
		)
	}
	table.Render()
}

// PrintAdvancedTable writes the advanced detail view: one block of three
// rows (overall / clutch / non-clutch) per passer.
func PrintAdvancedTable(w io.Writer, stats []model.AdvancedStats) {
	table := newTable(w)
	table.Header("PASSER", "SPLIT", "PLAYS", "CPOE", "ADJ_EPA", "PASS_YDS", "AIR_YDS", "OL_PRS%")
	for _, s := range stats {
		table.Append(
			s.Passer, "all", "",
			fmt.Sprintf("%.2f", s.AvgCPOE),
			fmt.Sprintf("%.3f", s.AvgAdjEPA),
			fmt.Sprintf("%.1f", s.AvgPassYards),
			fmt.Sprintf("%.1f", s.AvgAirYards),
			fmt.Sprintf("%.1f%%", s.AvgPressureRate*100),
		)
		appendAdvancedSplit(table, s.Passer, "clutch", s.Clutch)
		appendAdvancedSplit(table, s.Passer, "non-clutch", s.NonClutch)
	}
	table.Render()
}

func appendAdvancedSplit(table *tablewriter.Table, passer, label string, sp *model.AdvancedSplit) {
	if sp == nil {
		table.Append(passer, label, "0", "—", "—", "—", "—", "—")
		return
	}
	table.Append(
		passer, label,
		strconv.Itoa(sp.Plays),
		fmt.Sprintf("%.2f", sp.AvgCPOE),
		fmt.Sprintf("%.3f", sp.AvgAdjEPA),
		fmt.Sprintf("%.1f", sp.AvgPassYards),
		fmt.Sprintf("%.1f", sp.AvgAirYards),
		fmt.Sprintf("%.1f%%", sp.AvgPressureRate*100),
	)
}

func splitPlays(s *model.SplitStats) string {
	if s == nil {
		return "0"
	}
	return strconv.Itoa(s.Plays)
}

// splitAvg renders "—" for a missing split: no qualifying plays is not the
// same as an average of zero.
func splitAvg(s *model.SplitStats) string {
	if s == nil {
		return "—"
	}
	return fmt.Sprintf("%.3f", s.AvgAdjEPA)
}

func diffStr(d *float64) string {
	if d == nil {
		return "—"
	}
	return fmt.Sprintf("%+.3f", *d)
}
