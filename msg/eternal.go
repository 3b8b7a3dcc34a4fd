// Package msg implements the four eternal (module-independent) message
// types: want, have, nope and init.
package msg

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
)

// Want is a `want <module>` message: announces interest in a module,
// soliciting a `have` reply.
type Want struct {
	Module identifier.ModuleIdentifier
}

// DecodeWant decodes m as a Want message.
func DecodeWant(m wire.Message) (Want, bool) {
	if m.Type.Kind != identifier.Want || m.NumArguments() != 1 {
		return Want{}, false
	}
	mod, ok := wire.DecodeModuleIdentifier(m.Argument(0))
	if !ok {
		return Want{}, false
	}
	return Want{Module: mod}, true
}

// EncodeMessage implements wire.EncodableMessage.
func (w Want) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "want", 1)
	f.AddArgument(wire.ModuleIdentifier(w.Module))
	return f.Finalize()
}

// Have is a `have <module.minor>` (positive) or `have <module>` (negative)
// reply to a Want.
type Have struct {
	Module identifier.ModuleIdentifier
	// Minor is the supported minor version, or nil for a negative have.
	Minor *uint32
}

// DecodeHave decodes m as a Have message.
func DecodeHave(m wire.Message) (Have, bool) {
	if m.Type.Kind != identifier.Have || m.NumArguments() != 1 {
		return Have{}, false
	}
	arg := m.Argument(0)
	if mv, ok := wire.DecodeModuleVersion(arg); ok {
		minor := mv.Minor
		return Have{Module: mv.ModuleIdentifier, Minor: &minor}, true
	}
	if mod, ok := wire.DecodeModuleIdentifier(arg); ok {
		return Have{Module: mod}, true
	}
	return Have{}, false
}

// EncodeMessage implements wire.EncodableMessage.
func (h Have) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "have", 1)
	if h.Minor != nil {
		f.AddArgument(wire.ModuleVersion(h.Module.WithMinor(*h.Minor)))
	} else {
		f.AddArgument(wire.ModuleIdentifier(h.Module))
	}
	return f.Finalize()
}

// Nope is a `nope <message-type>` reply rejecting a parsed-but-invalid (or
// unrecognized non-scoped) message.
type Nope struct {
	RejectedType identifier.MessageType
}

// DecodeNope decodes m as a Nope message.
func DecodeNope(m wire.Message) (Nope, bool) {
	if m.Type.Kind != identifier.Nope || m.NumArguments() != 1 {
		return Nope{}, false
	}
	t, ok := wire.DecodeMessageType(m.Argument(0))
	if !ok {
		return Nope{}, false
	}
	return Nope{RejectedType: t}, true
}

// EncodeMessage implements wire.EncodableMessage.
func (n Nope) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "nope", 1)
	f.AddArgument(wire.MessageType(n.RejectedType))
	return f.Finalize()
}

// Init carries no arguments; its semantics belong to whatever foundation
// module a future revision defines. It is recognized here only so the
// eternal-type parse path never misclassifies it as a scoped identifier.
type Init struct{}

// DecodeInit decodes m as an Init message.
func DecodeInit(m wire.Message) (Init, bool) {
	if m.Type.Kind != identifier.Init || m.NumArguments() != 0 {
		return Init{}, false
	}
	return Init{}, true
}

// EncodeMessage implements wire.EncodableMessage.
func (Init) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "init", 0)
	return f.Finalize()
}
