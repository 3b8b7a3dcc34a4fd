// Package application defines the external contract the dispatcher core
// consumes: the application-level identity/credential store and the
// notification sink. Implementations are supplied by the embedder (see
// internal/memapp for a reference in-memory implementation).
package application

import "vt6.io/vt6d/common/identifier"

// ClientIdentity is what the Application hands back once a client secret
// has been authorized: the client's own ID plus its three optional screen
// IDs.
type ClientIdentity struct {
	ClientID     identifier.ClientID
	StdinScreen  *string
	StdoutScreen *string
	StderrScreen *string
}

// ScreenIdentity is the analogous identity for a screen's stdin/stdout
// secret.
type ScreenIdentity struct {
	ScreenID string
}

// ClientCredentials is an opaque secret string issued by the Application
// when a client is registered.
type ClientCredentials string

// ClientSelectorKind distinguishes the two ClientSelector predicates.
type ClientSelectorKind int

const (
	// AtOrBelow matches any ClientID equal to Base or having Base as a
	// strict prefix.
	AtOrBelow ClientSelectorKind = iota
	// StrictlyBelow matches only ClientIDs with Base as a strict prefix.
	StrictlyBelow
)

// ClientSelector is a predicate over ClientIDs, used to select a subtree
// of clients for broadcast teardown or unregistration.
type ClientSelector struct {
	Kind ClientSelectorKind
	Base identifier.ClientID
}

// Matches reports whether id satisfies the selector.
func (s ClientSelector) Matches(id identifier.ClientID) bool {
	switch s.Kind {
	case AtOrBelow:
		return id.IsAtOrBelow(s.Base)
	case StrictlyBelow:
		return id.IsStrictlyBelow(s.Base)
	default:
		return false
	}
}

// Application is the external collaborator the connection/dispatch core
// reaches into for identity and credential decisions. Every method must
// be safe for concurrent use; handlers may call it from any connection's
// receiver goroutine.
type Application interface {
	// RegisterClient stores a new client and returns a fresh secret. Must
	// be infallible.
	RegisterClient(identity ClientIdentity) ClientCredentials

	// AuthorizeClient looks up the identity for secret and, if valid,
	// consumes it: at most one call across the process lifetime returns
	// true for the same secret.
	AuthorizeClient(secret string) (ClientIdentity, bool)

	// AuthorizeStdin and AuthorizeStdout have the same at-most-one
	// contract as AuthorizeClient, independently per screen channel.
	AuthorizeStdin(secret string) (ScreenIdentity, bool)
	AuthorizeStdout(secret string) (ScreenIdentity, bool)

	// FindClient looks up a previously registered client by ID without
	// consuming anything.
	FindClient(id identifier.ClientID) (ClientIdentity, bool)

	// HasClients reports whether any registered client matches selector.
	HasClients(selector ClientSelector) bool

	// UnregisterClients drops every client matching selector.
	UnregisterClients(selector ClientSelector)

	// Notify delivers an informational or error event.
	Notify(n Notification)
}
