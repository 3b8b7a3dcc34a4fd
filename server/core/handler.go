package core

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/msg"
	core1 "vt6.io/vt6d/msg/core"
	"vt6.io/vt6d/server/application"
	"vt6.io/vt6d/server/connstate"
	"vt6.io/vt6d/server/handler"
)

// Module is this handler's own module identity, used to answer want core1
// without consulting the next handler.
var Module = core1.Module

// MessageHandler implements the vt6/core module: want/have negotiation and
// the core1 client lifecycle messages (client-make, client-new,
// lifetime-end). It wraps next, which handles anything this handler does
// not recognize.
type MessageHandler struct {
	app  application.Application
	next handler.MessageHandler
}

// NewMessageHandler builds a core1 handler backed by app, deferring
// unrecognized messages to next.
func NewMessageHandler(app application.Application, next handler.MessageHandler) *MessageHandler {
	return &MessageHandler{app: app, next: next}
}

// GetSupportedModuleVersion reports that this handler (and everything
// chained after it) supports core1.0, plus whatever next supports.
func (h *MessageHandler) GetSupportedModuleVersion(module identifier.ModuleIdentifier) (uint32, bool) {
	if module == Module {
		return 0, true
	}
	return h.next.GetSupportedModuleVersion(module)
}

func (h *MessageHandler) Handle(m wire.Message, conn handler.Conn) error {
	if w, ok := msg.DecodeWant(m); ok {
		return h.handleWant(w, conn)
	}
	if cm, ok := core1.DecodeClientMake(m); ok {
		return h.handleClientMake(cm, conn)
	}
	if ln, ok := core1.DecodeClientNew(m); ok {
		_ = ln
		return &handler.HandlerError{Kind: handler.InvalidMessage}
	}
	if le, ok := core1.DecodeLifetimeEnd(m); ok {
		return h.handleLifetimeEnd(le, conn)
	}
	return h.next.Handle(m, conn)
}

func (h *MessageHandler) HandleError(err error, conn handler.Conn) {
	h.next.HandleError(err, conn)
}

func (h *MessageHandler) handleWant(w msg.Want, conn handler.Conn) error {
	tracker := trackerFor(conn)

	if agreed, ok := tracker.IsModuleEnabled(w.Module.Name); ok {
		if sameMajor(agreed, w.Module) {
			minor := agreed.Minor
			conn.EnqueueMessage(msg.Have{Module: w.Module, Minor: &minor})
		} else {
			conn.EnqueueMessage(msg.Have{Module: w.Module})
		}
		return nil
	}

	minor, supported := h.GetSupportedModuleVersion(w.Module)
	if supported {
		tracker.EnableModule(w.Module.Name, identifier.ModuleVersion{ModuleIdentifier: w.Module, Minor: minor})
		conn.EnqueueMessage(msg.Have{Module: w.Module, Minor: &minor})
	} else {
		conn.EnqueueMessage(msg.Have{Module: w.Module})
	}
	return nil
}

// handleClientMake registers a new client identity derived from an
// already-identified caller and hands the freshly minted secret back as a
// core1.client-new reply, so the caller can pass it on to the process that
// will present it over posix1.client-hello.
func (h *MessageHandler) handleClientMake(cm core1.ClientMake, conn handler.Conn) error {
	identity := application.ClientIdentity{
		ClientID:     cm.ClientID,
		StdinScreen:  cm.StdinScreen,
		StdoutScreen: cm.StdoutScreen,
		StderrScreen: cm.StderrScreen,
	}
	secret := h.app.RegisterClient(identity)
	conn.EnqueueMessage(core1.ClientNew{Secret: string(secret)})
	return nil
}

// handleLifetimeEnd both tears down every live Msgio socket whose identity
// is at-or-below the named client and unregisters the matching subtree from
// the Application. The relative order of these two is not observable
// externally, since both complete before the next message is handled.
func (h *MessageHandler) handleLifetimeEnd(le core1.LifetimeEnd, conn handler.Conn) error {
	selector := application.ClientSelector{Kind: application.AtOrBelow, Base: le.ClientID}

	conn.EnqueueBroadcast(func(c handler.Conn) {
		identity, ok := c.MessageConnector().(application.ClientIdentity)
		if ok && selector.Matches(identity.ClientID) {
			c.SetState(connstate.Teardown)
		}
	})
	h.app.UnregisterClients(selector)
	return nil
}
