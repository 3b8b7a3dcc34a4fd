// Package posix implements the vt6/posix module's HandshakeHandler: the
// three client/stdin/stdout hello messages that classify a fresh socket
// out of the Handshake state.
package posix

import (
	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/msg/posix"
	"vt6.io/vt6d/server/application"
	"vt6.io/vt6d/server/connstate"
	"vt6.io/vt6d/server/handler"
)

// HandshakeHandler authorizes posix1.client-hello/stdin-hello/stdout-hello
// against app, wrapping next for anything it does not recognize.
type HandshakeHandler struct {
	app          application.Application
	next         handler.HandshakeHandler
	newConnector func(application.ScreenIdentity) connstate.StdoutConnector
}

// NewHandshakeHandler builds a posix1 handshake handler backed by app,
// deferring unrecognized messages to next. Screen output delivery (the
// StdoutConnector a successful stdout-hello installs) is out of this
// module's scope per se, so newConnector lets the embedder plug in its
// screen-rendering path; passing nil installs a connector that discards
// every byte it receives.
func NewHandshakeHandler(app application.Application, next handler.HandshakeHandler, newConnector func(application.ScreenIdentity) connstate.StdoutConnector) *HandshakeHandler {
	if newConnector == nil {
		newConnector = func(application.ScreenIdentity) connstate.StdoutConnector { return discardConnector{} }
	}
	return &HandshakeHandler{app: app, next: next, newConnector: newConnector}
}

// discardConnector is the default StdoutConnector: it drops every byte it
// receives. An embedder that actually renders screen output supplies its
// own via NewHandshakeHandler's newConnector argument.
type discardConnector struct{}

func (discardConnector) Receive(data []byte) {}

func (h *HandshakeHandler) Handle(m wire.Message, conn handler.Conn) error {
	if sh, ok := posix.DecodeStdinHello(m); ok {
		if identity, ok := h.app.AuthorizeStdin(sh.Secret); ok {
			conn.SetState(connstate.Stdin)
			conn.SetMessageConnector(identity)
			return nil
		}
		return &handler.HandlerError{Kind: handler.InvalidMessage}
	}

	if sh, ok := posix.DecodeStdoutHello(m); ok {
		if identity, ok := h.app.AuthorizeStdout(sh.Secret); ok {
			conn.SetState(connstate.Stdout)
			conn.SetStdoutConnector(h.newConnector(identity))
			return nil
		}
		return &handler.HandlerError{Kind: handler.InvalidMessage}
	}

	if ch, ok := posix.DecodeClientHello(m); ok {
		if identity, ok := h.app.AuthorizeClient(ch.Secret); ok {
			conn.SetState(connstate.Msgio)
			conn.SetMessageConnector(identity)
			conn.EnqueueMessage(posix.ServerHello{
				ClientID:     identity.ClientID,
				StdinScreen:  identity.StdinScreen,
				StdoutScreen: identity.StdoutScreen,
				StderrScreen: identity.StderrScreen,
			})
			return nil
		}
		return &handler.HandlerError{Kind: handler.InvalidMessage}
	}

	return h.next.Handle(m, conn)
}

func (h *HandshakeHandler) HandleError(err error, conn handler.Conn) {
	h.next.HandleError(err, conn)
}
