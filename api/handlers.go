/*
handlers.go - HTTP API handlers for the reporting dashboard

PURPOSE:
  Exposes the insights engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the insights service.

ENDPOINTS:
  Auth:
    POST   /api/auth/login                 Admin login, returns JWT
    GET    /api/auth/verify                Token check

  Analytics (token-gated):
    GET    /api/analytics/summary             Global counts for a period
    GET    /api/analytics/by-client           Per-client rollup
    GET    /api/analytics/client-budgets      Per-client rollup + fulfillment
    GET    /api/analytics/by-project          Per-project rollup (clientId filter)
    GET    /api/analytics/by-user             Per-user rollup
    GET    /api/analytics/projects-with-users Nested project->user breakdown
    GET    /api/analytics/overview            All views over one snapshot
    GET    /api/analytics/clients             Client directory

  Budgets (token-gated):
    GET    /api/budgets                    Full budget mapping
    PUT    /api/budgets                    Upsert one client's limit

QUERY PARAMETERS:
  range=week|month|quarter|year|custom, startDate/endDate (YYYY-MM-DD,
  override the range kind when both given), clientId (by-project only).

ERROR HANDLING:
  - 400: Invalid range input
  - 401: Missing/invalid token (see auth.go)
  - 500: Store failures, malformed entry data

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sybrisoft/toggl-insights/insights"
	"github.com/sybrisoft/toggl-insights/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *insights.Service
	Budgets insights.BudgetStore
	Auth    *Auth
}

// NewHandler wires the reporting service and budget store to HTTP.
func NewHandler(store *sqlite.Store, auth *Auth) *Handler {
	return &Handler{
		Service: insights.NewService(store),
		Budgets: store,
		Auth:    auth,
	}
}

// rangeQuery extracts the period selector from query parameters.
func rangeQuery(r *http.Request) insights.RangeQuery {
	q := r.URL.Query()
	return insights.RangeQuery{
		Range:     insights.RangeKind(q.Get("range")),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
}

// writeRollupError maps engine failures to HTTP statuses: bad range input is
// the caller's fault, everything else is a data/store problem.
func writeRollupError(w http.ResponseWriter, err error) {
	if errors.Is(err, insights.ErrInvalidRangeInput) {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to fetch analytics", err)
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login verifies the admin password and issues a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required", nil)
		return
	}

	token, err := h.Auth.Login(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Invalid password", nil)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Verify confirms the caller's token is valid. It sits behind the auth
// middleware, so reaching it means the token checked out.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// =============================================================================
// ANALYTICS HANDLERS
// =============================================================================

// GetSummary returns global counts for the queried period.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context(), rangeQuery(r))
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetByClient returns the per-client rollup.
func (h *Handler) GetByClient(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ByClient(r.Context(), rangeQuery(r))
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientRollupDTOs(rows))
}

// GetClientBudgets returns the per-client rollup joined with the persisted
// budget mapping: limit, fulfillment percentage, band, and share of total.
func (h *Handler) GetClientBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.Budgets.Budgets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load budgets", err)
		return
	}

	rows, err := h.Service.ClientsWithBudgets(r.Context(), rangeQuery(r), budgets)
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientBudgetDTOs(rows))
}

// GetByProject returns the per-project rollup, optionally filtered to one
// client via ?clientId=.
func (h *Handler) GetByProject(w http.ResponseWriter, r *http.Request) {
	var client *insights.ClientID
	if id := r.URL.Query().Get("clientId"); id != "" {
		cid := insights.ClientID(id)
		client = &cid
	}

	rows, err := h.Service.ByProject(r.Context(), rangeQuery(r), client)
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectRollupDTOs(rows))
}

// GetByUser returns the per-user rollup.
func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ByUser(r.Context(), rangeQuery(r))
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserRollupDTOs(rows))
}

// GetProjectsWithUsers returns the nested project->user breakdown.
func (h *Handler) GetProjectsWithUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.ProjectsWithUsers(r.Context(), rangeQuery(r))
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectWithUsersDTOs(rows))
}

// GetOverview returns every view computed from one entry snapshot.
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Service.Overview(r.Context(), rangeQuery(r))
	if err != nil {
		writeRollupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OverviewDTO{
		Start:    ov.Range.Start.Format(insights.DateLayout),
		End:      ov.Range.End.Format(insights.DateLayout),
		Label:    ov.Label,
		Summary:  toSummaryDTO(ov.Summary),
		Clients:  toClientRollupDTOs(ov.Clients),
		Projects: toProjectRollupDTOs(ov.Projects),
		Users:    toUserRollupDTOs(ov.Users),
	})
}

// ListClients returns the client directory for filter dropdowns.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Service.ListClients(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch clients", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTOs(clients))
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

// GetBudgets returns the full clientName -> limitHours mapping.
func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.Budgets.Budgets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load budgets", err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

// SaveBudget upserts one client's monthly limit.
func (h *Handler) SaveBudget(w http.ResponseWriter, r *http.Request) {
	var req SaveBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ClientName == "" {
		writeError(w, http.StatusBadRequest, "Client name is required", nil)
		return
	}
	if req.LimitHours < 0 {
		writeError(w, http.StatusBadRequest, "Limit hours must not be negative", nil)
		return
	}

	if err := h.Budgets.SaveBudget(r.Context(), req.ClientName, req.LimitHours); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save budget", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
