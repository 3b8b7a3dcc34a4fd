// Package telemetry is the outermost link of the Msgio message handler
// chain (the handshake chain does not use it): it logs each inbound message and records it in the dispatcher's Prometheus
// counters before deferring to the real chain, matching the "logging →
// core → application-specific → baseline-reject" composition.
package telemetry

import (
	"github.com/op/go-logging"

	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
	"vt6.io/vt6d/server/handler"
	"vt6.io/vt6d/server/metrics"
)

// MessageHandler wraps next, logging and counting every message it sees on
// a Msgio socket.
type MessageHandler struct {
	log  *logging.Logger
	m    *metrics.Metrics
	next handler.MessageHandler
}

func WrapMessageHandler(log *logging.Logger, m *metrics.Metrics, next handler.MessageHandler) *MessageHandler {
	return &MessageHandler{log: log, m: m, next: next}
}

func (h *MessageHandler) Handle(msg wire.Message, conn handler.Conn) error {
	h.log.Debugf("connection %d: %s", conn.ID(), msg.String())
	h.m.MessageHandled(msg.Type.String())
	return h.next.Handle(msg, conn)
}

func (h *MessageHandler) HandleError(err error, conn handler.Conn) {
	h.log.Debugf("connection %d: parse error: %s", conn.ID(), err)
	h.next.HandleError(err, conn)
}

func (h *MessageHandler) GetSupportedModuleVersion(module identifier.ModuleIdentifier) (uint32, bool) {
	return h.next.GetSupportedModuleVersion(module)
}
