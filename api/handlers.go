/*
handlers.go - HTTP API handlers for the membership service

PURPOSE:
  Exposes the roster and the membership lifecycle engine over REST. Handles
  HTTP request/response and JSON, and delegates to clients.Service and the
  membership package.

ENDPOINTS:
  Clients:
    GET    /api/clients?status=&as_of=   List, filtered by derived status
    POST   /api/clients                  Create
    GET    /api/clients/{id}?as_of=      Detail with countdown
    DELETE /api/clients/{id}             Delete
    POST   /api/clients/{id}/renew       Reset the membership anchor
    GET    /api/clients/{id}/renewals    Renewal history

  Alerts:
    GET    /api/alerts/expiring?days=7   Clients expiring within N days
    GET    /api/alerts/summary           Counts per status
    GET    /api/alerts/runs              Scheduler history

  Lifecycle:
    POST   /api/lifecycle/compute        Stateless expiration + status

  Catalog:
    GET    /api/periods                  Period enumeration
    GET    /api/plans                    Plan catalog

REFERENCE DATE:
  Every request samples "now" once (or takes ?as_of=YYYY-MM-DD) and uses it
  for every row, so a list never mixes two different days.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Client not found
  - 500: Internal errors
  - 503: Health check could not reach storage

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/membership-engine/clients"
	"github.com/warp/membership-engine/membership"
)

const dateLayout = "2006-01-02"

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *clients.Service
	Logger  *slog.Logger

	// Now is sampled once per request.
	Now func() time.Time
}

// NewHandler creates a handler over the given service.
func NewHandler(svc *clients.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Service: svc, Logger: logger, Now: time.Now}
}

// asOf returns ?as_of= when given, else the wall clock.
func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	if s := r.URL.Query().Get("as_of"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, &clients.InvalidInputError{Field: "as_of", Reason: "use YYYY-MM-DD"}
		}
		return t, nil
	}
	return h.Now(), nil
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns clients filtered by ?status= (all, active, inactive,
// expiring_soon, expired; Spanish tab names accepted).
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	filter, err := clients.ParseFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	views, err := h.Service.List(r.Context(), filter, now)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTOs(views))
}

// GetClient returns one client with its membership countdown.
func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"), now)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(*v))
}

// CreateClient creates a new client.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	in := clients.NewClient{
		ID:          req.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		PlanID:      req.PlanID,
		PeriodLabel: req.Period,
	}
	start, ok, err := membership.ParseDate(req.MembershipStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid membership_start format (use YYYY-MM-DD)", err)
		return
	}
	if ok {
		in.MembershipStart = &start
	}

	c, err := h.Service.Create(r.Context(), in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientDTO(clients.View{
		Client:     *c,
		Membership: clients.Evaluate(*c, membership.NewEvaluator(h.Now())),
	}))
}

// DeleteClient removes a client.
func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenewClient resets the membership anchor.
func (h *Handler) RenewClient(w http.ResponseWriter, r *http.Request) {
	var req RenewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, ok, err := membership.ParseDate(req.Start)
	if err != nil || !ok {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}

	var period membership.Period
	if req.Period != "" {
		// The new API sends canonical names; legacy callers send labels.
		if period, err = membership.ParsePeriod(req.Period); err != nil {
			period = membership.PeriodFromLabel(req.Period)
		}
	}

	c, err := h.Service.Renew(r.Context(), chi.URLParam(r, "id"), start, period)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientDTO(clients.View{
		Client:     *c,
		Membership: clients.Evaluate(*c, membership.NewEvaluator(h.Now())),
	}))
}

// ListRenewals returns a client's renewal history.
func (h *Handler) ListRenewals(w http.ResponseWriter, r *http.Request) {
	renewals, err := h.Service.Renewals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]RenewalDTO, len(renewals))
	for i, rn := range renewals {
		dtos[i] = RenewalDTO{
			ID:            rn.ID,
			ClientID:      rn.ClientID,
			PreviousStart: formatDatePtr(rn.PreviousStart),
			NewStart:      rn.NewStart.Format(dateLayout),
			Period:        string(rn.Period),
			ExpiresOn:     rn.Period.AddTo(rn.NewStart).Format(dateLayout),
			CreatedAt:     rn.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ALERT HANDLERS
// =============================================================================

// ListExpiring returns clients whose membership ends within ?days= (default 7).
func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	days := 7
	if s := r.URL.Query().Get("days"); s != "" {
		if days, err = strconv.Atoi(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
	}

	views, err := h.Service.ExpiringWithin(r.Context(), days, now)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExpiringResponse{
		AsOf:    membership.DateOf(now).Format(dateLayout),
		Days:    days,
		Count:   len(views),
		Clients: toClientDTOs(views),
	})
}

// GetSummary returns roster counts per status.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	now, err := h.asOf(r)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	sum, err := h.Service.Summary(r.Context(), now)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(sum))
}

// ListAlertRuns returns recent scheduler passes (?limit=, default 50).
func (h *Handler) ListAlertRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter", err)
			return
		}
		limit = n
	}

	runs, err := h.Service.Repo.ListAlertRuns(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	dtos := make([]AlertRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = AlertRunDTO{
			ID:           run.ID,
			RanAt:        run.RanAt.Format(time.RFC3339),
			AsOf:         run.AsOf.Format(dateLayout),
			Active:       run.Active,
			ExpiringSoon: run.ExpiringSoon,
			Expired:      run.Expired,
			Unknown:      run.Unknown,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LIFECYCLE HANDLERS
// =============================================================================

// ComputeLifecycle runs the engine on raw inputs without touching storage.
// Unparsable or missing dates are reported in the result, never as 400.
func (h *Handler) ComputeLifecycle(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.Now()
	if req.AsOf != "" {
		t, ok, err := membership.ParseDate(req.AsOf)
		if err != nil || !ok {
			writeError(w, http.StatusBadRequest, "Invalid as_of format (use YYYY-MM-DD)", err)
			return
		}
		now = t
	}

	exp := membership.Resolve(req.MembershipStart, req.AccountCreatedAt, req.Period)
	m := clients.EvaluateExpiration(exp, membership.NewEvaluator(now))
	writeJSON(w, http.StatusOK, toMembershipDTO(m))
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListPeriods returns the period enumeration.
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods := membership.Periods()
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = PeriodDTO{ID: string(p), Label: p.Label()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListPlans returns the plan catalog.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans := h.Service.Catalog.Plans()
	dtos := make([]PlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = PlanDTO{
			ID:       string(p.ID),
			Name:     p.Name,
			Period:   string(p.Period),
			Price:    p.Price.StringFixed(2),
			Currency: p.Currency,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// pinger is implemented by repositories backed by a connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness, and storage reachability when the repository
// can be pinged.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Service.Repo.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.Logger.Error("health check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Storage unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func toClientDTOs(views []clients.View) []ClientDTO {
	dtos := make([]ClientDTO, len(views))
	for i, v := range views {
		dtos[i] = toClientDTO(v)
	}
	return dtos
}

func toClientDTO(v clients.View) ClientDTO {
	c := v.Client
	return ClientDTO{
		ID:              c.ID,
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		PlanID:          c.PlanID,
		PeriodLabel:     c.PeriodLabel,
		MembershipStart: formatDatePtr(c.MembershipStart),
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
		Membership:      toMembershipDTO(v.Membership),
	}
}

func toMembershipDTO(m clients.Membership) MembershipDTO {
	exp := m.Expiration
	dto := MembershipDTO{
		AsOf:           m.AsOf.Format(dateLayout),
		Period:         string(m.Period),
		PeriodLabel:    m.Period.Label(),
		AnchorKind:     string(exp.Anchor.Kind),
		ExpirationKind: string(exp.Kind),
		DaysRemaining:  m.DaysRemaining,
		Status:         string(m.Status),
		StatusLabel:    m.Status.Label(),
		ExpiringSoon:   m.Status == membership.StatusExpiringSoon,
		Expired:        m.Status == membership.StatusExpired,
		DisplayDate:    m.DisplayDate,
	}
	if exp.Anchor.OK() {
		dto.AnchorDate = formatDatePtr(&exp.Anchor.Date)
	}
	if exp.OK() {
		dto.ExpiresOn = formatDatePtr(&exp.Date)
	}
	if m.DaysRemaining != nil {
		dto.Countdown = membership.FormatDaysRemaining(*m.DaysRemaining)
	}
	return dto
}

func toSummaryDTO(s membership.Summary) SummaryDTO {
	return SummaryDTO{
		AsOf:         s.AsOf.Format(dateLayout),
		Active:       s.Active,
		ExpiringSoon: s.ExpiringSoon,
		Expired:      s.Expired,
		Unknown:      s.Unknown,
		Total:        s.Total(),
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var invalid *clients.InvalidInputError
	switch {
	case clients.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Client not found", err)
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error(), nil)
	case clients.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		h.Logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

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
