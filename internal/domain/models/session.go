// Package models contains domain models for the Member Verification Service.
package models

import "time"

// SessionStatus represents the phase of the verification flow for one room.
type SessionStatus string

const (
	// StatusNeedTenant means the member has not yet identified their cooperative.
	StatusNeedTenant SessionStatus = "NEED_TENANT"
	// StatusNeedCredentials means the cooperative is known and credentials are being collected.
	StatusNeedCredentials SessionStatus = "NEED_CREDENTIALS"
	// StatusNeedOTP means credentials were accepted and the one-time passcode is pending.
	StatusNeedOTP SessionStatus = "NEED_OTP"
	// StatusAuthenticated means the member completed verification.
	StatusAuthenticated SessionStatus = "AUTHENTICATED"
	// StatusFailed means the flow hit an unrecoverable error; the next message restarts it.
	StatusFailed SessionStatus = "FAILED"
)

// PendingIntent identifies a capability to resume once verification completes.
type PendingIntent string

const (
	// IntentNone means no capability is waiting on authentication.
	IntentNone PendingIntent = ""
	// IntentLoanLookup resumes a loan enquiry after the member verifies.
	IntentLoanLookup PendingIntent = "loan-lookup"
)

// PartialCredentials accumulates credential fields across turns. Either field
// may be empty until the member has supplied it.
type PartialCredentials struct {
	Email          string `json:"email,omitempty"`
	EmployeeNumber string `json:"employeeNumber,omitempty"`
}

// Complete reports whether both credential fields have been collected.
func (p PartialCredentials) Complete() bool {
	return p.Email != "" && p.EmployeeNumber != ""
}

// Merge overlays non-empty fields from other onto a copy of p.
func (p PartialCredentials) Merge(other PartialCredentials) PartialCredentials {
	out := p
	if other.Email != "" {
		out.Email = other.Email
	}
	if other.EmployeeNumber != "" {
		out.EmployeeNumber = other.EmployeeNumber
	}
	return out
}

// Session is the persisted verification state for one conversation room.
// Records are always replaced whole; there is no partial-update primitive.
type Session struct {
	RoomID            string             `json:"roomId"`
	Status            SessionStatus      `json:"status"`
	Tenant            string             `json:"tenant,omitempty"`
	TenantDisplayName string             `json:"tenantDisplayName,omitempty"`
	Credentials       PartialCredentials `json:"partialCredentials,omitempty"`
	// EmployeeNumber is the verified employee number, copied out of the
	// partial credentials when authentication succeeds. Loan-data calls need
	// it after partialCredentials has been cleared.
	EmployeeNumber    string             `json:"employeeNumber,omitempty"`
	OTPExpected       string             `json:"otpExpected,omitempty"`
	AuthToken         string             `json:"authToken,omitempty"`
	Pending           PendingIntent      `json:"pendingIntent,omitempty"`
	LastError         string             `json:"lastError,omitempty"`
	PreviousStatus    SessionStatus      `json:"previousStatus,omitempty"`
	TimedOut          bool               `json:"timedOut,omitempty"`
	VerifiedAt        time.Time          `json:"verifiedAt,omitempty"`
	UpdatedAt         time.Time          `json:"updatedAt"`

	// Stored is true when the record was read back from the store, false when
	// this is the implicit default for a room with no record. Never persisted.
	Stored bool `json:"-"`
}

// NewSession returns the default state for a room with no stored record.
func NewSession(roomID string) *Session {
	return &Session{
		RoomID: roomID,
		Status: StatusNeedTenant,
	}
}

// ResetFor returns a fresh NEED_TENANT session for the same room, preserving
// the pending intent so the member does not repeat an already-stated request.
// All secrets and partial credentials are discarded.
func (s *Session) ResetFor(timedOut bool) *Session {
	return &Session{
		RoomID:         s.RoomID,
		Status:         StatusNeedTenant,
		Pending:        s.Pending,
		PreviousStatus: s.Status,
		TimedOut:       timedOut,
	}
}

// Authenticated reports whether the member has completed verification.
func (s *Session) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// InFlow reports whether the room is mid-verification: a stored record in any
// phase short of AUTHENTICATED. Implicit default sessions are not in-flow.
func (s *Session) InFlow() bool {
	return s.Stored && s.Status != StatusAuthenticated
}

// Redacted returns a copy safe for logs and diagnostic responses: secrets are
// masked and credential fields are reduced to presence markers.
func (s *Session) Redacted() map[string]interface{} {
	out := map[string]interface{}{
		"roomId":    s.RoomID,
		"status":    string(s.Status),
		"updatedAt": s.UpdatedAt,
	}
	if s.Tenant != "" {
		out["tenant"] = s.Tenant
		out["tenantDisplayName"] = s.TenantDisplayName
	}
	if s.Credentials.Email != "" || s.Credentials.EmployeeNumber != "" {
		out["hasEmail"] = s.Credentials.Email != ""
		out["hasEmployeeNumber"] = s.Credentials.EmployeeNumber != ""
	}
	if s.EmployeeNumber != "" {
		out["hasVerifiedEmployeeNumber"] = true
	}
	if s.OTPExpected != "" {
		out["otpExpected"] = "[REDACTED]"
	}
	if s.AuthToken != "" {
		out["authToken"] = "[REDACTED]"
	}
	if s.Pending != IntentNone {
		out["pendingIntent"] = string(s.Pending)
	}
	if s.LastError != "" {
		out["lastError"] = s.LastError
	}
	if s.TimedOut {
		out["timedOut"] = true
		out["previousStatus"] = string(s.PreviousStatus)
	}
	if !s.VerifiedAt.IsZero() {
		out["verifiedAt"] = s.VerifiedAt
	}
	return out
}
