package wire

import "vt6.io/vt6d/common/identifier"

// Identifier, ClientID, ModuleIdentifier, ModuleVersion, ScopedIdentifier
// and MessageType all have a canonical string form, so they share the
// same bytesArg-based encoding; only the decode predicate differs per
// type.

// Identifier wraps an identifier.Identifier for encoding.
func Identifier(v identifier.Identifier) EncodeArgument { return bytesArg(v.String()) }

// DecodeIdentifier decodes an Identifier argument.
func DecodeIdentifier(b []byte) (identifier.Identifier, bool) {
	return identifier.ParseIdentifier(string(b))
}

// ClientID wraps an identifier.ClientID for encoding.
func ClientID(v identifier.ClientID) EncodeArgument { return bytesArg(v.String()) }

// DecodeClientID decodes a ClientID argument.
func DecodeClientID(b []byte) (identifier.ClientID, bool) {
	return identifier.ParseClientID(string(b))
}

// ModuleIdentifier wraps an identifier.ModuleIdentifier for encoding.
func ModuleIdentifier(v identifier.ModuleIdentifier) EncodeArgument { return bytesArg(v.String()) }

// DecodeModuleIdentifier decodes a ModuleIdentifier argument.
func DecodeModuleIdentifier(b []byte) (identifier.ModuleIdentifier, bool) {
	return identifier.ParseModuleIdentifier(string(b))
}

// ModuleVersion wraps an identifier.ModuleVersion for encoding.
func ModuleVersion(v identifier.ModuleVersion) EncodeArgument { return bytesArg(v.String()) }

// DecodeModuleVersion decodes a ModuleVersion argument.
func DecodeModuleVersion(b []byte) (identifier.ModuleVersion, bool) {
	return identifier.ParseModuleVersion(string(b))
}

// ScopedIdentifier wraps an identifier.ScopedIdentifier for encoding.
func ScopedIdentifier(v identifier.ScopedIdentifier) EncodeArgument { return bytesArg(v.String()) }

// DecodeScopedIdentifier decodes a ScopedIdentifier argument.
func DecodeScopedIdentifier(b []byte) (identifier.ScopedIdentifier, bool) {
	return identifier.ParseScopedIdentifier(string(b))
}

// MessageType wraps an identifier.MessageType for encoding.
func MessageType(v identifier.MessageType) EncodeArgument { return bytesArg(v.String()) }

// DecodeMessageType decodes a MessageType argument.
func DecodeMessageType(b []byte) (identifier.MessageType, bool) {
	return identifier.ParseMessageType(string(b))
}
