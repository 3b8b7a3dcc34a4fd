// Package core implements the core1 module's client lifecycle messages:
// client-make, client-new and lifetime-end.
package core

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
)

// Module is the core1 ModuleIdentifier.
var Module = identifier.ModuleIdentifier{Name: "core", Major: 1}

func moduleType(member string) identifier.ScopedIdentifier {
	return identifier.ScopedIdentifier{Module: Module, Member: identifier.Identifier(member)}
}

func isType(m wire.Message, member string) bool {
	return m.Type.Kind == identifier.Scoped && m.Type.ScopedValue == moduleType(member)
}

func optionStringArg(v *string) wire.EncodeArgument {
	if v == nil {
		return wire.Option(nil)
	}
	return wire.Option(wire.String(*v))
}

// ClientMake is `core1.client-make <client-id> <stdin?> <stdout?>
// <stderr?>`: a registered client announcing a derived child/job client.
type ClientMake struct {
	ClientID     identifier.ClientID
	StdinScreen  *string
	StdoutScreen *string
	StderrScreen *string
}

func DecodeClientMake(m wire.Message) (ClientMake, bool) {
	if !isType(m, "client-make") || m.NumArguments() != 4 {
		return ClientMake{}, false
	}
	cid, ok := wire.DecodeClientID(m.Argument(0))
	if !ok {
		return ClientMake{}, false
	}
	stdin, ok := wire.DecodeOption(m.Argument(1), wire.DecodeString)
	if !ok {
		return ClientMake{}, false
	}
	stdout, ok := wire.DecodeOption(m.Argument(2), wire.DecodeString)
	if !ok {
		return ClientMake{}, false
	}
	stderr, ok := wire.DecodeOption(m.Argument(3), wire.DecodeString)
	if !ok {
		return ClientMake{}, false
	}
	return ClientMake{ClientID: cid, StdinScreen: stdin, StdoutScreen: stdout, StderrScreen: stderr}, true
}

func (c ClientMake) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "core1.client-make", 4)
	f.AddArgument(wire.ClientID(c.ClientID))
	f.AddArgument(optionStringArg(c.StdinScreen))
	f.AddArgument(optionStringArg(c.StdoutScreen))
	f.AddArgument(optionStringArg(c.StderrScreen))
	return f.Finalize()
}

// ClientNew is `core1.client-new <secret>`: the server's reply to a
// ClientMake, carrying the secret minted for the newly registered client.
type ClientNew struct {
	Secret string
}

func DecodeClientNew(m wire.Message) (ClientNew, bool) {
	if !isType(m, "client-new") || m.NumArguments() != 1 {
		return ClientNew{}, false
	}
	secret, ok := wire.DecodeString(m.Argument(0))
	if !ok {
		return ClientNew{}, false
	}
	return ClientNew{Secret: secret}, true
}

func (c ClientNew) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "core1.client-new", 1)
	f.AddArgument(wire.String(c.Secret))
	return f.Finalize()
}

// LifetimeEnd is `core1.lifetime-end <client-id>`: a client declaring that
// itself and every client at-or-below it in the ID hierarchy is done.
type LifetimeEnd struct {
	ClientID identifier.ClientID
}

func DecodeLifetimeEnd(m wire.Message) (LifetimeEnd, bool) {
	if !isType(m, "lifetime-end") || m.NumArguments() != 1 {
		return LifetimeEnd{}, false
	}
	cid, ok := wire.DecodeClientID(m.Argument(0))
	if !ok {
		return LifetimeEnd{}, false
	}
	return LifetimeEnd{ClientID: cid}, true
}

func (l LifetimeEnd) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "core1.lifetime-end", 1)
	f.AddArgument(wire.ClientID(l.ClientID))
	return f.Finalize()
}
