// Package posix implements the posix1 module's handshake messages:
// client-hello, stdin-hello, stdout-hello, server-hello and parent-hello.
package posix

import (
	"vt6.io/vt6d/common/identifier"
	"vt6.io/vt6d/common/wire"
)

func moduleType(member string) identifier.ScopedIdentifier {
	return identifier.ScopedIdentifier{
		Module: identifier.ModuleIdentifier{Name: "posix", Major: 1},
		Member: identifier.Identifier(member),
	}
}

func isType(m wire.Message, member string) bool {
	return m.Type.Kind == identifier.Scoped && m.Type.ScopedValue == moduleType(member)
}

// ClientHello is `posix1.client-hello <secret>`, sent by a client socket
// entering Msgio mode.
type ClientHello struct {
	Secret string
}

func DecodeClientHello(m wire.Message) (ClientHello, bool) {
	if !isType(m, "client-hello") || m.NumArguments() != 1 {
		return ClientHello{}, false
	}
	secret, ok := wire.DecodeString(m.Argument(0))
	if !ok {
		return ClientHello{}, false
	}
	return ClientHello{Secret: secret}, true
}

func (h ClientHello) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "posix1.client-hello", 1)
	f.AddArgument(wire.String(h.Secret))
	return f.Finalize()
}

// StdinHello is `posix1.stdin-hello <secret>`.
type StdinHello struct {
	Secret string
}

func DecodeStdinHello(m wire.Message) (StdinHello, bool) {
	if !isType(m, "stdin-hello") || m.NumArguments() != 1 {
		return StdinHello{}, false
	}
	secret, ok := wire.DecodeString(m.Argument(0))
	if !ok {
		return StdinHello{}, false
	}
	return StdinHello{Secret: secret}, true
}

func (h StdinHello) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "posix1.stdin-hello", 1)
	f.AddArgument(wire.String(h.Secret))
	return f.Finalize()
}

// StdoutHello is `posix1.stdout-hello <secret>`.
type StdoutHello struct {
	Secret string
}

func DecodeStdoutHello(m wire.Message) (StdoutHello, bool) {
	if !isType(m, "stdout-hello") || m.NumArguments() != 1 {
		return StdoutHello{}, false
	}
	secret, ok := wire.DecodeString(m.Argument(0))
	if !ok {
		return StdoutHello{}, false
	}
	return StdoutHello{Secret: secret}, true
}

func (h StdoutHello) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "posix1.stdout-hello", 1)
	f.AddArgument(wire.String(h.Secret))
	return f.Finalize()
}

// ServerHello is `posix1.server-hello <client-id> <stdin?> <stdout?>
// <stderr?>`, the server's reply once a ClientHello is authorized.
type ServerHello struct {
	ClientID     identifier.ClientID
	StdinScreen  *string
	StdoutScreen *string
	StderrScreen *string
}

func DecodeServerHello(m wire.Message) (ServerHello, bool) {
	if !isType(m, "server-hello") || m.NumArguments() != 4 {
		return ServerHello{}, false
	}
	cid, ok := wire.DecodeClientID(m.Argument(0))
	if !ok {
		return ServerHello{}, false
	}
	stdin, ok := wire.DecodeOption(m.Argument(1), wire.DecodeString)
	if !ok {
		return ServerHello{}, false
	}
	stdout, ok := wire.DecodeOption(m.Argument(2), wire.DecodeString)
	if !ok {
		return ServerHello{}, false
	}
	stderr, ok := wire.DecodeOption(m.Argument(3), wire.DecodeString)
	if !ok {
		return ServerHello{}, false
	}
	return ServerHello{ClientID: cid, StdinScreen: stdin, StdoutScreen: stdout, StderrScreen: stderr}, true
}

func optionStringArg(v *string) wire.EncodeArgument {
	if v == nil {
		return wire.Option(nil)
	}
	return wire.Option(wire.String(*v))
}

func (h ServerHello) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "posix1.server-hello", 4)
	f.AddArgument(wire.ClientID(h.ClientID))
	f.AddArgument(optionStringArg(h.StdinScreen))
	f.AddArgument(optionStringArg(h.StdoutScreen))
	f.AddArgument(optionStringArg(h.StderrScreen))
	return f.Finalize()
}

// ParentHello is `posix1.parent-hello <client-secret> <server-socket-path>`,
// delivered once over the inherited out-of-band parent channel (FD 60 by
// convention).
type ParentHello struct {
	ClientSecret     string
	ServerSocketPath string
}

func DecodeParentHello(m wire.Message) (ParentHello, bool) {
	if !isType(m, "parent-hello") || m.NumArguments() != 2 {
		return ParentHello{}, false
	}
	secret, ok := wire.DecodeString(m.Argument(0))
	if !ok {
		return ParentHello{}, false
	}
	path, ok := wire.DecodeString(m.Argument(1))
	if !ok {
		return ParentHello{}, false
	}
	return ParentHello{ClientSecret: secret, ServerSocketPath: path}, true
}

func (h ParentHello) EncodeMessage(buf []byte) (int, error) {
	f := wire.NewMessageFormatter(buf, "posix1.parent-hello", 2)
	f.AddArgument(wire.String(h.ClientSecret))
	f.AddArgument(wire.String(h.ServerSocketPath))
	return f.Finalize()
}
