// Package core implements the core1 module's handler: want/have negotiation
// bookkeeping plus client-make/client-new/lifetime-end handling.
package core

import (
	"github.com/blang/semver"

	"vt6.io/vt6d/common/identifier"
)

// Tracker records which modules a connection has already agreed to, so that
// a repeated want for an already-agreed module answers consistently instead
// of re-deriving the negotiation from scratch. One Tracker is stored in a
// connection's UserData slot for its whole lifetime; handlers are
// constructed fresh per message, but the Tracker they operate on is not.
type Tracker struct {
	agreed map[string]identifier.ModuleVersion
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{agreed: make(map[string]identifier.ModuleVersion)}
}

// EnableModule records that name is now agreed at version. Calling this
// twice for the same name is a programmer error.
func (t *Tracker) EnableModule(name string, version identifier.ModuleVersion) {
	if _, ok := t.agreed[name]; ok {
		panic("vt6: cannot enable_module(" + name + ") twice on the same connection")
	}
	t.agreed[name] = version
}

// IsModuleEnabled reports whether name has already been agreed, and at
// which version.
func (t *Tracker) IsModuleEnabled(name string) (identifier.ModuleVersion, bool) {
	v, ok := t.agreed[name]
	return v, ok
}

// sameMajor reports whether want and agreed are compatible under the usual
// semver convention that two versions sharing a major are compatible
// regardless of minor. Only the majors are compared; a want carries no
// minor version to compare against.
func sameMajor(agreed identifier.ModuleVersion, want identifier.ModuleIdentifier) bool {
	a := semver.Version{Major: uint64(agreed.Major), Minor: uint64(agreed.Minor)}
	w := semver.Version{Major: uint64(want.Major)}
	return a.Major == w.Major
}

// trackerFor returns the Tracker stored in conn's UserData, lazily
// creating and storing one on first use.
func trackerFor(conn interface {
	UserData() interface{}
	SetUserData(interface{})
}) *Tracker {
	if t, ok := conn.UserData().(*Tracker); ok {
		return t
	}
	t := NewTracker()
	conn.SetUserData(t)
	return t
}
