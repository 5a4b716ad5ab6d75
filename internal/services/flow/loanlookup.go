package flow

import (
	domainerrors "github.com/coopassist/verify-service/internal/domain/errors"
	"github.com/coopassist/verify-service/internal/domain/models"
	"github.com/coopassist/verify-service/internal/services/loans"
)

// handleLoanLookup answers a loan enquiry. An unverified member has the
// request stashed as the pending intent and is steered into verification;
// it resumes automatically once they complete it.
func (t *turn) handleLoanLookup() {
	infoType := loans.ParseInfoType(t.engine.extractor.ExtractLoanIntent(t.ctx, t.message))

	if !t.sess.Authenticated() {
		next := *t.sess
		next.Pending = models.IntentLoanLookup
		if !t.persist(&next) {
			return
		}
		t.reply(deferredLoanPrompt(t.sess.Status))
		return
	}

	t.runLoanFetch(infoType)
}

// deferredLoanPrompt acknowledges the stashed loan request and steers the
// member to whatever the verification flow needs next.
func deferredLoanPrompt(status models.SessionStatus) string {
	switch status {
	case models.StatusNeedCredentials:
		return "I'll check your loan as soon as we finish verifying you. " + msgAskCredentialsShort
	case models.StatusNeedOTP:
		return "I'll check your loan as soon as we finish verifying you. " + msgAskOTP
	default:
		return msgAskTenantForLoan
	}
}

// runLoanFetch calls the tenant loan API for a verified member and renders
// the answer. Any upstream failure invalidates the verification: the token
// is presumed stale, so the session resets to the start of the flow with the
// loan request stashed for automatic resumption.
func (t *turn) runLoanFetch(infoType loans.InfoType) {
	t.reply(msgFetchingLoan)

	data, err := t.engine.tenantAPI.FetchLoanInfo(t.ctx, t.sess.Tenant, t.sess.EmployeeNumber, t.sess.AuthToken)
	if err != nil {
		t.engine.logger.Warn().Err(err).
			Str("room_id", t.sess.RoomID).
			Str("tenant", t.sess.Tenant).
			Msg("loan fetch failed")

		reset := t.sess.ResetFor(false)
		reset.Pending = models.IntentLoanLookup
		if !t.persist(reset) {
			return
		}
		if domainerrors.UpstreamKind(err) == domainerrors.KindUnauthorized {
			t.reply(msgLoanUnauthorized)
		} else {
			t.reply(msgLoanUpstreamDown)
		}
		return
	}

	t.reply(t.engine.renderer.Render(t.ctx, data, infoType))

	if t.sess.Pending == models.IntentLoanLookup {
		next := *t.sess
		next.Pending = models.IntentNone
		if err := t.engine.store.Put(t.ctx, &next); err != nil {
			// The stale intent re-runs the lookup on the next message;
			// annoying but harmless, so the reply stands.
			t.engine.logger.Warn().Err(err).
				Str("room_id", t.sess.RoomID).
				Msg("clearing pending intent failed")
			return
		}
		t.sess = &next
	}
}
