package flow

import (
	"fmt"
	"regexp"

	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/tenantdir"
)

// emailPattern is deliberately loose: one @, a dot somewhere in the domain,
// no whitespace. The tenant API is the real validator.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// exampleCount caps how many cooperative names a re-prompt lists.
const exampleCount = 5

// handleAuthenticate advances the verification flow by one step, dispatching
// on the room's current phase.
func (t *turn) handleAuthenticate() {
	switch t.sess.Status {
	case models.StatusFailed:
		// A failed flow regenerates on the next message. The stashed
		// intent survives so the member does not repeat their request.
		if !t.persist(t.sess.ResetFor(false)) {
			return
		}
		t.reply(msgRestartAfterFailure)
	case models.StatusAuthenticated:
		// An explicit verification request from a verified member starts
		// the flow over from scratch.
		if !t.persist(models.NewSession(t.sess.RoomID)) {
			return
		}
		t.reply(msgAskTenant)
	case models.StatusNeedCredentials:
		t.collectCredentials()
	case models.StatusNeedOTP:
		// Only digits are eligible passcode entries; anything else gets
		// the passcode prompt again.
		t.reply(msgAskOTP)
	default:
		t.collectTenant()
	}
}

// collectTenant tries to pin the member's cooperative from the message:
// deterministic directory resolution first, free-text extraction second.
func (t *turn) collectTenant() {
	dir := t.engine.resolver.Directory()

	tenantID := t.engine.resolver.Resolve(t.message)
	displayName := ""
	if tenantID == "" {
		name, err := t.engine.extractor.ExtractTenant(t.ctx, t.message, dir.CanonicalNames())
		if err != nil {
			t.engine.logger.Warn().Err(err).
				Str("room_id", t.sess.RoomID).
				Msg("tenant extraction failed")
		}
		if name != "" {
			if id, ok := dir.Lookup(name); ok {
				tenantID = id
				displayName = name
			}
		}
	}

	if tenantID == "" {
		// Persist even without progress: the room is now mid-flow, so the
		// next message continues here instead of being re-routed.
		next := *t.sess
		next.Status = models.StatusNeedTenant
		if !t.persist(&next) {
			return
		}
		t.reply(msgTenantNotFound(dir.ExampleNames(exampleCount)))
		return
	}

	if displayName == "" {
		displayName = displayNameFor(dir.Entries(), tenantID)
	}

	next := *t.sess
	next.Status = models.StatusNeedCredentials
	next.Tenant = tenantID
	next.TenantDisplayName = displayName
	if !t.persist(&next) {
		return
	}
	t.reply(fmt.Sprintf(msgAskCredentials, displayName))
}

// collectCredentials accumulates credential fields across turns and calls
// the tenant API once both are present and plausible.
func (t *turn) collectCredentials() {
	extracted, err := t.engine.extractor.ExtractCredentials(t.ctx, t.message)
	if err != nil {
		t.engine.logger.Warn().Err(err).
			Str("room_id", t.sess.RoomID).
			Msg("credential extraction failed")
		t.reply(msgCredentialsUnreadable)
		return
	}

	merged := t.sess.Credentials.Merge(extracted)

	if merged != t.sess.Credentials {
		next := *t.sess
		next.Credentials = merged
		if !t.persist(&next) {
			return
		}
	}

	switch {
	case merged.Email == "":
		t.reply(msgAskEmail)
		return
	case !emailPattern.MatchString(merged.Email):
		t.reply(msgBadEmail)
		return
	case merged.EmployeeNumber == "":
		t.reply(msgAskEmployeeNumber)
		return
	}

	auth, err := t.engine.tenantAPI.Authenticate(t.ctx, merged.Email, merged.EmployeeNumber, t.sess.Tenant)
	if err != nil {
		t.engine.logger.Warn().Err(err).
			Str("room_id", t.sess.RoomID).
			Str("tenant", t.sess.Tenant).
			Msg("upstream authentication failed")
		t.reply(authFailureMessage(err))
		return
	}

	next := *t.sess
	next.Status = models.StatusNeedOTP
	next.EmployeeNumber = merged.EmployeeNumber
	next.Credentials = models.PartialCredentials{}
	next.OTPExpected = auth.OTP
	next.AuthToken = auth.Token
	if !t.persist(&next) {
		return
	}
	t.reply(msgAskOTP)
}

// authFailureMessage maps an upstream authentication failure to member copy.
func authFailureMessage(err error) string {
	switch domainerrors.UpstreamKind(err) {
	case domainerrors.KindInvalidCredentials:
		return msgInvalidCredentials
	case domainerrors.KindNotFound:
		return msgMemberNotFound
	default:
		return msgUpstreamDown
	}
}

// displayNameFor returns the first directory key mapped to a tenant id.
func displayNameFor(entries []tenantdir.Entry, tenantID string) string {
	for _, e := range entries {
		if e.ID == tenantID {
			return e.Key
		}
	}
	return tenantID
}
