package flow

// handleGeneric answers messages no capability claimed, including stray
// numeric messages outside the passcode phase. Deterministic copy; the
// generation service is not consulted here.
func (t *turn) handleGeneric() {
	if t.sess.Authenticated() {
		t.reply(msgGenericAuthed)
		return
	}
	t.reply(msgGenericUnauthed)
}
