// Package memapp is a reference in-memory implementation of
// server/application.Application: secrets are random UUIDs, digested with
// blake2b before being used as map keys (so a leaked map dump does not
// leak bearer secrets), and each secret is usable at most once thanks to a
// bounded LRU of already-consumed digests.
package memapp

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
	uuid "github.com/satori/go.uuid"
	"golang.org/x/crypto/blake2b"

	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/server/application"
)

// usedSecretCacheSize bounds the memory spent remembering already-consumed
// secrets; once a secret is consumed it never needs to be looked up again
// except to reject a replay, so an LRU eviction of very old entries is
// safe in practice (a replay of a secret evicted this long ago is not a
// realistic threat on a short-lived local socket).
const usedSecretCacheSize = 4096

type secretDigest [blake2b.Size256]byte

func digest(secret string) secretDigest {
	return blake2b.Sum256([]byte(secret))
}

func newSecret() string {
	return uuid.NewV4().String()
}

// App is the in-memory Application. Zero value is not usable; construct
// with New.
type App struct {
	mu sync.Mutex

	clientsByID    map[identifier.ClientID]application.ClientIdentity
	pendingClients map[secretDigest]application.ClientIdentity
	pendingStdin   map[secretDigest]application.ScreenIdentity
	pendingStdout  map[secretDigest]application.ScreenIdentity
	usedSecrets    *lru.Cache

	notify func(application.Notification)
}

// New builds an empty App. notify receives every Notification the core
// surfaces; pass nil to discard them.
func New(notify func(application.Notification)) *App {
	used, err := lru.New(usedSecretCacheSize)
	if err != nil {
		// lru.New only fails for a non-positive size, which is a
		// programmer error, not a runtime condition.
		panic(err)
	}
	if notify == nil {
		notify = func(application.Notification) {}
	}
	return &App{
		clientsByID:    make(map[identifier.ClientID]application.ClientIdentity),
		pendingClients: make(map[secretDigest]application.ClientIdentity),
		pendingStdin:   make(map[secretDigest]application.ScreenIdentity),
		pendingStdout:  make(map[secretDigest]application.ScreenIdentity),
		usedSecrets:    used,
		notify:         notify,
	}
}

func (a *App) RegisterClient(identity application.ClientIdentity) application.ClientCredentials {
	secret := newSecret()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clientsByID[identity.ClientID] = identity
	a.pendingClients[digest(secret)] = identity
	return application.ClientCredentials(secret)
}

// RegisterScreen mints a pair of one-time secrets (stdin, stdout) for a
// screen identity. It is not part of the Application interface (screens
// are not registered over the wire in this specification), but it is the
// entry point an embedder uses to seed stdin/stdout secrets before handing
// them to a client out-of-band.
func (a *App) RegisterScreen(identity application.ScreenIdentity) (stdinSecret, stdoutSecret string) {
	stdinSecret = newSecret()
	stdoutSecret = newSecret()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pendingStdin[digest(stdinSecret)] = identity
	a.pendingStdout[digest(stdoutSecret)] = identity
	return
}

func (a *App) AuthorizeClient(secret string) (application.ClientIdentity, bool) {
	d := digest(secret)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, used := a.usedSecrets.Get(d); used {
		return application.ClientIdentity{}, false
	}
	identity, ok := a.pendingClients[d]
	if !ok {
		return application.ClientIdentity{}, false
	}
	delete(a.pendingClients, d)
	a.usedSecrets.Add(d, struct{}{})
	return identity, true
}

func (a *App) AuthorizeStdin(secret string) (application.ScreenIdentity, bool) {
	return a.authorizeScreen(secret, a.pendingStdin)
}

func (a *App) AuthorizeStdout(secret string) (application.ScreenIdentity, bool) {
	return a.authorizeScreen(secret, a.pendingStdout)
}

func (a *App) authorizeScreen(secret string, pending map[secretDigest]application.ScreenIdentity) (application.ScreenIdentity, bool) {
	d := digest(secret)
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, used := a.usedSecrets.Get(d); used {
		return application.ScreenIdentity{}, false
	}
	identity, ok := pending[d]
	if !ok {
		return application.ScreenIdentity{}, false
	}
	delete(pending, d)
	a.usedSecrets.Add(d, struct{}{})
	return identity, true
}

func (a *App) FindClient(id identifier.ClientID) (application.ClientIdentity, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	identity, ok := a.clientsByID[id]
	return identity, ok
}

func (a *App) HasClients(selector application.ClientSelector) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id := range a.clientsByID {
		if selector.Matches(id) {
			return true
		}
	}
	return false
}

func (a *App) UnregisterClients(selector application.ClientSelector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id := range a.clientsByID {
		if selector.Matches(id) {
			delete(a.clientsByID, id)
		}
	}
}

func (a *App) Notify(n application.Notification) {
	a.notify(n)
}
