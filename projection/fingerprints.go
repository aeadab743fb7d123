// Package projection builds the local, merged view of a room from the two
// delivery paths. Handles ordering and deduplication; it never emits
// events and never talks to the network.
package projection

// Fingerprints is the dedup store: a pure set of identities already
// applied to the owning session. It is scoped per session on purpose — a
// global set would silently drop legitimate re-delivery after a room
// revisit.
type Fingerprints struct {
	seen map[string]struct{}
}

func NewFingerprints() *Fingerprints {
	return &Fingerprints{seen: make(map[string]struct{})}
}

func (f *Fingerprints) Seen(id string) bool {
	_, ok := f.seen[id]
	return ok
}

func (f *Fingerprints) Record(id string) {
	f.seen[id] = struct{}{}
}
