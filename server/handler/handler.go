// Package handler implements the VT6 handler chain: middleware that either
// fully handles a parsed message or defers to the next handler, with a
// baseline reject terminator mandated by the protocol.
package handler

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/server/connstate"
)

// HandlerErrorKind distinguishes the two ways a handler can decline a
// message: not recognizing its type at all, or rejecting it.
type HandlerErrorKind int

const (
	// UnknownMessageType means no handler in the chain recognizes this
	// message type; the baseline response is a have/nope reply.
	UnknownMessageType HandlerErrorKind = iota
	// InvalidMessage means a handler recognized the type but rejected its
	// arguments or the connection's current state; the baseline response
	// is a nope reply.
	InvalidMessage
)

// HandlerError is returned by Handler.Handle to decline a message.
type HandlerError struct {
	Kind HandlerErrorKind
}

func (e *HandlerError) Error() string {
	switch e.Kind {
	case InvalidMessage:
		return "vt6: invalid message"
	default:
		return "vt6: unknown message type"
	}
}

// IsUnknownMessageType reports whether err is a HandlerError of kind
// UnknownMessageType.
func IsUnknownMessageType(err error) bool {
	he, ok := err.(*HandlerError)
	return ok && he.Kind == UnknownMessageType
}

// IsInvalidMessage reports whether err is a HandlerError of kind
// InvalidMessage.
func IsInvalidMessage(err error) bool {
	he, ok := err.(*HandlerError)
	return ok && he.Kind == InvalidMessage
}

// Conn is the subset of *connection.Connection that handlers are allowed
// to manipulate. Defined here (rather than importing the connection
// package) to avoid an import cycle: connection.Connection implements
// this interface structurally.
type Conn interface {
	ID() uint64
	State() connstate.State
	SetState(connstate.State)
	EnqueueMessage(msg wire.EncodableMessage)
	EnqueueBroadcast(action func(Conn))

	// UserData/SetUserData is a slot for handler-chain state that must
	// persist across messages on one connection (e.g. a per-connection
	// module negotiation tracker), since handlers themselves are
	// constructed fresh for every message.
	UserData() interface{}
	SetUserData(interface{})

	SetStdoutConnector(connstate.StdoutConnector)
	StdoutConnector() connstate.StdoutConnector
	SetMessageConnector(connstate.MessageConnector)
	MessageConnector() connstate.MessageConnector
}

// Handler is one link in the middleware chain.
type Handler interface {
	// Handle attempts to handle msg. Returning nil means the handler took
	// full responsibility, including enqueuing any needed replies.
	Handle(msg wire.Message, conn Conn) error
	// HandleError observes a wire parse error on conn, typically to log
	// it; it does not return a value because parse errors are always
	// fatal in Handshake and always resynced-past in Msgio regardless of
	// what handlers do here.
	HandleError(err error, conn Conn)
}

// MessageHandler is used on Msgio sockets. Beyond Handle/HandleError, it
// must be able to answer "do I support this module" so the core handler
// can synthesize have replies to want messages.
type MessageHandler interface {
	Handler
	// GetSupportedModuleVersion returns the highest minor version this
	// handler chain supports for module, if any.
	GetSupportedModuleVersion(module identifier.ModuleIdentifier) (minor uint32, ok bool)
}

// HandshakeHandler is used on fresh sockets until one of the handshake
// message types is observed. It has the same method set as Handler; the
// distinct name documents the phase it is used in.
type HandshakeHandler interface {
	Handler
}
