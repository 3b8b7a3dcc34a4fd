package handler

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
)

// RejectHandler is the baseline terminator placed at the end of every
// handler chain. It never claims a message and never supports any module.
type RejectHandler struct{}

func (RejectHandler) Handle(msg wire.Message, conn Conn) error {
	return &HandlerError{Kind: UnknownMessageType}
}

func (RejectHandler) HandleError(err error, conn Conn) {}

func (RejectHandler) GetSupportedModuleVersion(module identifier.ModuleIdentifier) (uint32, bool) {
	return 0, false
}
