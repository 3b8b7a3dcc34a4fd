package clientid

import "vt6.io/vt6d/common/identifier"

// RelativeClientID is a ClientID expressed as a base plus a compact
// Suffix, e.g. base "foo" + Suffix{Kind: Job, A: 0} == "foo1".
type RelativeClientID struct {
	Base   identifier.ClientID
	Suffix Suffix
}

// ClientID renders the full ClientID string.
func (r RelativeClientID) ClientID() identifier.ClientID {
	return identifier.ClientID(r.Base.String() + r.Suffix.Encode())
}

func (r RelativeClientID) String() string { return r.ClientID().String() }
