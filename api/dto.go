/*
dto.go - Request/response shapes for the HTTP API

Dates on the wire are "YYYY-MM-DD"; instants are RFC3339. Optional dates are
pointers so "no membership start" serializes as null rather than "".
*/
package api

// =============================================================================
// CLIENTS
// =============================================================================

// CreateClientRequest is the body of POST /api/clients.
type CreateClientRequest struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	PlanID          string `json:"plan_id,omitempty"`
	Period          string `json:"period,omitempty"` // canonical name or legacy label
	MembershipStart string `json:"membership_start,omitempty"`
}

// RenewRequest is the body of POST /api/clients/{id}/renew.
type RenewRequest struct {
	Start  string `json:"start"`
	Period string `json:"period,omitempty"` // empty keeps the current period
}

type ClientDTO struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email,omitempty"`
	Phone           string        `json:"phone,omitempty"`
	PlanID          string        `json:"plan_id,omitempty"`
	PeriodLabel     string        `json:"period_label,omitempty"`
	MembershipStart *string       `json:"membership_start"`
	CreatedAt       string        `json:"created_at"`
	Membership      MembershipDTO `json:"membership"`
}

// MembershipDTO is the computed membership state.
type MembershipDTO struct {
	AsOf           string  `json:"as_of"`
	Period         string  `json:"period"`
	PeriodLabel    string  `json:"period_display"`
	AnchorKind     string  `json:"anchor_kind"`
	AnchorDate     *string `json:"anchor_date"`
	ExpirationKind string  `json:"expiration_kind"`
	ExpiresOn      *string `json:"expires_on"`
	DaysRemaining  *int    `json:"days_remaining"`
	Countdown      string  `json:"countdown,omitempty"`
	Status         string  `json:"status"`
	StatusLabel    string  `json:"status_label"`
	ExpiringSoon   bool    `json:"expiring_soon"`
	Expired        bool    `json:"expired"`
	DisplayDate    string  `json:"display_date"`
}

type RenewalDTO struct {
	ID            string  `json:"id"`
	ClientID      string  `json:"client_id"`
	PreviousStart *string `json:"previous_start"`
	NewStart      string  `json:"new_start"`
	Period        string  `json:"period"`
	ExpiresOn     string  `json:"expires_on"`
	CreatedAt     string  `json:"created_at"`
}

// =============================================================================
// CATALOG
// =============================================================================

type PeriodDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type PlanDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Period   string `json:"period"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
}

// =============================================================================
// ALERTS
// =============================================================================

type SummaryDTO struct {
	AsOf         string `json:"as_of"`
	Active       int    `json:"active"`
	ExpiringSoon int    `json:"expiring_soon"`
	Expired      int    `json:"expired"`
	Unknown      int    `json:"unknown"`
	Total        int    `json:"total"`
}

type ExpiringResponse struct {
	AsOf    string      `json:"as_of"`
	Days    int         `json:"days"`
	Count   int         `json:"count"`
	Clients []ClientDTO `json:"clients"`
}

type AlertRunDTO struct {
	ID           string `json:"id"`
	RanAt        string `json:"ran_at"`
	AsOf         string `json:"as_of"`
	Active       int    `json:"active"`
	ExpiringSoon int    `json:"expiring_soon"`
	Expired      int    `json:"expired"`
	Unknown      int    `json:"unknown"`
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// ComputeRequest is the body of POST /api/lifecycle/compute. All fields are
// optional; missing anchors produce an unknown status, not an error.
type ComputeRequest struct {
	MembershipStart  string `json:"membership_start"`
	AccountCreatedAt string `json:"account_created_at"`
	Period           string `json:"period"`
	AsOf             string `json:"as_of"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
