package server

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var dashboardHTML []byte

// handleDashboard serves the single-page dashboard. All data arrives through
// the JSON API; the page only wires dropdowns to charts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dashboardHTML)
}
