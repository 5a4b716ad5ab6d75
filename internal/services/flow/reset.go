package flow

import "github.com/coopassist/verify-service/internal/domain/models"

// handleReset wipes the room back to a blank record. Unlike a timeout or
// failure reset, an explicit reset also drops any stashed intent: the member
// asked for a clean slate.
func (t *turn) handleReset() {
	next := models.NewSession(t.sess.RoomID)
	next.PreviousStatus = t.sess.Status
	if !t.persist(next) {
		return
	}
	t.reply(msgResetDone)
}
