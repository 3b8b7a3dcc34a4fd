// Package connection implements the per-socket VT6 connection state
// machine: receive-buffer feeding, parse-error recovery, and dispatch into
// the handler chain.
package connection

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/msg"
	"vt6.io/vt6d/server/application"
	"vt6.io/vt6d/server/connstate"
	"vt6.io/vt6d/server/handler"
)

// ReceiveBuffer abstracts the already-read-but-not-yet-consumed byte
// buffer a Connection parses from. Discard must shift (or otherwise
// account for) the first n bytes so that a subsequent Contents() no
// longer includes them.
type ReceiveBuffer interface {
	Contents() []byte
	Discard(n int)
}

// Dispatcher is the subset of the dispatcher's API a Connection needs.
// Defined here (rather than importing package dispatch) to avoid an
// import cycle: dispatch.Dispatcher implements this interface
// structurally.
type Dispatcher interface {
	EnqueueMessage(connID uint64, msg wire.EncodableMessage)
	EnqueueStdin(connID uint64, data []byte)
	EnqueueBroadcast(action func(handler.Conn))
	Notify(n application.Notification)
}

// Connection is one accepted socket's state: a stable ID, a back-reference
// to its dispatcher, and a ConnectionState. It is created in state
// Handshake and owned exclusively by the dispatcher's connection pool.
type Connection struct {
	dispatcher Dispatcher
	id         uint64
	state      connstate.State

	newHandshakeHandler func() handler.HandshakeHandler
	newMessageHandler   func() handler.MessageHandler

	stdoutConnector connstate.StdoutConnector
	messageConn     connstate.MessageConnector

	// userData is a slot for handler-chain state that must persist across
	// messages on one connection (e.g. a per-connection module
	// negotiation tracker), since handlers themselves are constructed
	// fresh for every message.
	userData interface{}
}

// New creates a Connection in state Handshake.
func New(dispatcher Dispatcher, id uint64, newHandshakeHandler func() handler.HandshakeHandler, newMessageHandler func() handler.MessageHandler) *Connection {
	return &Connection{
		dispatcher:          dispatcher,
		id:                  id,
		state:               connstate.Handshake,
		newHandshakeHandler: newHandshakeHandler,
		newMessageHandler:   newMessageHandler,
	}
}

func (c *Connection) ID() uint64 { return c.id }

func (c *Connection) State() connstate.State { return c.state }

func (c *Connection) SetState(s connstate.State) { c.state = s }

func (c *Connection) UserData() interface{} { return c.userData }

func (c *Connection) SetUserData(v interface{}) { c.userData = v }

func (c *Connection) SetStdoutConnector(sc connstate.StdoutConnector) { c.stdoutConnector = sc }

func (c *Connection) StdoutConnector() connstate.StdoutConnector { return c.stdoutConnector }

func (c *Connection) SetMessageConnector(mc connstate.MessageConnector) { c.messageConn = mc }

func (c *Connection) MessageConnector() connstate.MessageConnector { return c.messageConn }

// EnqueueMessage appends an encoded message to this connection's outbound
// queue. Valid only in Handshake/Msgio; panics otherwise.
func (c *Connection) EnqueueMessage(m wire.EncodableMessage) {
	if !c.state.CanReceiveMessages() {
		panic("vt6: EnqueueMessage called in state " + c.state.String())
	}
	c.dispatcher.EnqueueMessage(c.id, m)
}

// EnqueueStdin streams raw bytes to this connection's socket. Valid only
// in Stdin; panics otherwise.
func (c *Connection) EnqueueStdin(data []byte) {
	if !c.state.CanReceiveStdin() {
		panic("vt6: EnqueueStdin called in state " + c.state.String())
	}
	c.dispatcher.EnqueueStdin(c.id, data)
}

// EnqueueBroadcast queues action to run against every live connection once
// no mutable connection borrow is outstanding.
func (c *Connection) EnqueueBroadcast(action func(handler.Conn)) {
	c.dispatcher.EnqueueBroadcast(action)
}

func indexByteFrom(buf []byte, b byte, from int) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == b {
			return i
		}
	}
	return -1
}

// HandleIncoming feeds newly-read bytes through the connection's state
// machine, discarding consumed/invalid bytes from buf as it goes. It
// returns once buf is empty or once it needs more bytes to make progress
// (UnexpectedEOF).
func (c *Connection) HandleIncoming(buf ReceiveBuffer) {
	for {
		contents := buf.Contents()
		if len(contents) == 0 {
			return
		}
		switch c.state {
		case connstate.Handshake, connstate.Msgio:
			if !c.stepMsgio(buf) {
				return
			}
			// state or buffer may have changed; loop to reprocess
		case connstate.Stdin:
			discarded := append([]byte(nil), contents...)
			c.state = connstate.Teardown
			buf.Discard(len(contents))
			c.dispatcher.Notify(application.Notification{Kind: application.IncomingBytesDiscarded, Discarded: discarded})
			return
		case connstate.Stdout:
			if c.stdoutConnector != nil {
				c.stdoutConnector.Receive(contents)
			}
			buf.Discard(len(contents))
			return
		case connstate.Teardown:
			return
		}
	}
}

// stepMsgio attempts to parse and handle one message from buf. It returns
// false if the parser needs more bytes (the caller should stop and wait),
// true if it made progress (consumed a message, or resynced past garbage)
// and the caller should loop again.
func (c *Connection) stepMsgio(buf ReceiveBuffer) bool {
	contents := buf.Contents()
	parsed, consumed, err := wire.Parse(contents)
	if err != nil {
		if err == wire.ErrUnexpectedEOF {
			return false
		}
		c.handleParseError(buf, contents, err)
		return true
	}

	if c.state == connstate.Handshake {
		hh := c.newHandshakeHandler()
		if herr := hh.Handle(parsed, c); herr != nil {
			c.state = connstate.Teardown
		}
		buf.Discard(consumed)
		return true
	}

	mh := c.newMessageHandler()
	herr := mh.Handle(parsed, c)
	switch {
	case herr == nil:
		// handler took full responsibility
	case handler.IsInvalidMessage(herr):
		c.EnqueueMessage(msg.Nope{RejectedType: parsed.Type})
	case handler.IsUnknownMessageType(herr):
		c.replyToUnknownType(mh, parsed.Type)
	default:
		c.EnqueueMessage(msg.Nope{RejectedType: parsed.Type})
	}
	buf.Discard(consumed)
	return true
}

func (c *Connection) replyToUnknownType(mh handler.MessageHandler, msgType identifier.MessageType) {
	if msgType.Kind != identifier.Scoped {
		c.EnqueueMessage(msg.Nope{RejectedType: msgType})
		return
	}
	module := msgType.ScopedValue.Module
	if minor, ok := mh.GetSupportedModuleVersion(module); ok {
		c.EnqueueMessage(msg.Have{Module: module, Minor: &minor})
	} else {
		c.EnqueueMessage(msg.Have{Module: module})
	}
}

func (c *Connection) handleParseError(buf ReceiveBuffer, contents []byte, err error) {
	var h handler.Handler
	if c.state == connstate.Handshake {
		h = c.newHandshakeHandler()
	} else {
		h = c.newMessageHandler()
	}
	h.HandleError(err, c)

	if c.state == connstate.Handshake {
		c.state = connstate.Teardown
	}

	n := len(contents)
	if idx := indexByteFrom(contents, '{', 1); idx >= 0 {
		n = idx
	}
	discarded := append([]byte(nil), contents[:n]...)
	buf.Discard(n)
	c.dispatcher.Notify(application.Notification{Kind: application.IncomingBytesDiscarded, Discarded: discarded})
}
