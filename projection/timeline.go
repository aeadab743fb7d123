package projection

import (
	"github.com/abhi21121211/roomloop-client-sub000/domain"
)

// Timeline holds one room's merged message and reaction sequences. Items
// are unique by id and kept in first-seen order; entries are never
// reordered after insertion. Both the pull-path history and the push-path
// live items land here, which is where the double-delivery of a client's
// own send (pull confirmation first, push echo later) gets collapsed.
//
// Timeline is not safe for concurrent use; the owning session serializes
// access.
type Timeline struct {
	messages     []domain.Message
	reactions    []domain.Reaction
	messageSeen  *Fingerprints
	reactionSeen *Fingerprints
}

func NewTimeline() *Timeline {
	return &Timeline{
		messageSeen:  NewFingerprints(),
		reactionSeen: NewFingerprints(),
	}
}

// ReplaceMessages installs a freshly fetched history wholesale. Previously
// applied live items are dropped along with their fingerprints: the fetch
// is the authoritative snapshot at that instant.
func (t *Timeline) ReplaceMessages(messages []domain.Message) {
	t.messages = nil
	t.messageSeen = NewFingerprints()
	for _, m := range messages {
		t.AppendMessage(m)
	}
}

func (t *Timeline) ReplaceReactions(reactions []domain.Reaction) {
	t.reactions = nil
	t.reactionSeen = NewFingerprints()
	for _, r := range reactions {
		t.AppendReaction(r)
	}
}

// AppendMessage applies one incoming message in arrival order. Returns
// false when the id was already applied.
func (t *Timeline) AppendMessage(m domain.Message) bool {
	if t.messageSeen.Seen(m.ID) {
		return false
	}
	t.messageSeen.Record(m.ID)
	t.messages = append(t.messages, m)
	return true
}

func (t *Timeline) AppendReaction(r domain.Reaction) bool {
	if t.reactionSeen.Seen(r.ID) {
		return false
	}
	t.reactionSeen.Record(r.ID)
	t.reactions = append(t.reactions, r)
	return true
}

// Messages returns a copy of the merged sequence.
func (t *Timeline) Messages() []domain.Message {
	out := make([]domain.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Timeline) Reactions() []domain.Reaction {
	out := make([]domain.Reaction, len(t.reactions))
	copy(out, t.reactions)
	return out
}
