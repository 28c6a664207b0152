package handlers

import "net/http"

// GetFinanceHandler godoc
// @Summary Finance summary
// @Description Revenue and outstanding payments from delivered orders, expenses from transactions
// @Tags finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=metrics.Finance}
// @Failure 500 {object} Envelope
// @Router /finance [get]
func (s *Server) GetFinanceHandler(w http.ResponseWriter, r *http.Request) {
	finance, err := s.metrics.Finance(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, finance)
}

// GetDashboardHandler godoc
// @Summary Dashboard KPIs, weekly sales and recent activity
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=metrics.Dashboard}
// @Failure 500 {object} Envelope
// @Router /dashboard [get]
func (s *Server) GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.metrics.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok(w, r, http.StatusOK, dashboard)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} Envelope{data=HealthResult}
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ok(w, r, http.StatusOK, HealthResult{Status: "ok"})
}
