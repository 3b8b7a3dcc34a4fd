// Package identifier implements the VT6 identifier family: Identifier,
// ClientID, ModuleIdentifier, ModuleVersion and ScopedIdentifier, plus the
// MessageType these compose into.
package identifier

import (
	"strconv"
	"strings"
)

// Identifier is a non-empty string matching [A-Za-z_][A-Za-z0-9_-]*.
type Identifier string

func isIdentifierLeader(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentifierBody(b byte) bool {
	return isIdentifierLeader(b) || (b >= '0' && b <= '9') || b == '-'
}

// IsIdentifier reports whether s is a well-formed Identifier.
func IsIdentifier(s string) bool {
	if len(s) == 0 || !isIdentifierLeader(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentifierBody(s[i]) {
			return false
		}
	}
	return true
}

// ParseIdentifier parses s as an Identifier.
func ParseIdentifier(s string) (Identifier, bool) {
	if !IsIdentifier(s) {
		return "", false
	}
	return Identifier(s), true
}

func (id Identifier) String() string { return string(id) }

// ClientID is a non-empty string matching [A-Za-z0-9]+. Unlike Identifier,
// digits-only is permitted and underscore/hyphen are not.
type ClientID string

func isClientIDChar(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// IsClientID reports whether s is a well-formed ClientID.
func IsClientID(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isClientIDChar(s[i]) {
			return false
		}
	}
	return true
}

// ParseClientID parses s as a ClientID.
func ParseClientID(s string) (ClientID, bool) {
	if !IsClientID(s) {
		return "", false
	}
	return ClientID(s), true
}

func (id ClientID) String() string { return string(id) }

// IsAtOrBelow reports whether id equals base or has base as a strict
// prefix, matching the ClientSelector.AtOrBelow predicate.
func (id ClientID) IsAtOrBelow(base ClientID) bool {
	return strings.HasPrefix(string(id), string(base))
}

// IsStrictlyBelow reports whether base is a strict prefix of id.
func (id ClientID) IsStrictlyBelow(base ClientID) bool {
	return id != base && id.IsAtOrBelow(base)
}

// parseNonNegativeNoLeadingZeroes parses a decimal number from s, rejecting
// leading zeroes (except the literal single digit "0"), returning false on
// any other malformed input.
func parseNonNegativeNoLeadingZeroes(s string) (uint32, bool) {
	if len(s) == 0 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// ModuleIdentifier is an Identifier immediately followed by a non-zero
// decimal major version with no leading zeros, e.g. "core1".
type ModuleIdentifier struct {
	Name  string
	Major uint32
}

// splitNameAndVersion finds the boundary between the identifier's leading
// alphabetic/underscore/hyphen run and its trailing digit run. It returns
// the name and the raw digit string (possibly empty).
func splitNameAndVersion(s string) (name string, digits string) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}

// ParseModuleIdentifier parses s as a ModuleIdentifier.
func ParseModuleIdentifier(s string) (ModuleIdentifier, bool) {
	name, digits := splitNameAndVersion(s)
	if digits == "" || !IsIdentifier(name) {
		return ModuleIdentifier{}, false
	}
	major, ok := parseNonNegativeNoLeadingZeroes(digits)
	if !ok || major == 0 {
		return ModuleIdentifier{}, false
	}
	return ModuleIdentifier{Name: name, Major: major}, true
}

func (m ModuleIdentifier) String() string {
	return m.Name + strconv.FormatUint(uint64(m.Major), 10)
}

// WithMinor builds the ModuleVersion m.minor.
func (m ModuleIdentifier) WithMinor(minor uint32) ModuleVersion {
	return ModuleVersion{ModuleIdentifier: m, Minor: minor}
}

// ModuleVersion is a ModuleIdentifier followed by "." and a decimal minor
// version (no leading zeros; 0 allowed), e.g. "core1.0".
type ModuleVersion struct {
	ModuleIdentifier
	Minor uint32
}

// ParseModuleVersion parses s as a ModuleVersion.
func ParseModuleVersion(s string) (ModuleVersion, bool) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return ModuleVersion{}, false
	}
	mod, ok := ParseModuleIdentifier(s[:dot])
	if !ok {
		return ModuleVersion{}, false
	}
	minor, ok := parseNonNegativeNoLeadingZeroes(s[dot+1:])
	if !ok {
		return ModuleVersion{}, false
	}
	return ModuleVersion{ModuleIdentifier: mod, Minor: minor}, true
}

func (v ModuleVersion) String() string {
	return v.ModuleIdentifier.String() + "." + strconv.FormatUint(uint64(v.Minor), 10)
}

// ScopedIdentifier is a ModuleIdentifier "." Identifier, e.g. "core1.set".
// Used as message types and property names.
type ScopedIdentifier struct {
	Module ModuleIdentifier
	Member Identifier
}

// ParseScopedIdentifier parses s as a ScopedIdentifier.
func ParseScopedIdentifier(s string) (ScopedIdentifier, bool) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return ScopedIdentifier{}, false
	}
	mod, ok := ParseModuleIdentifier(s[:dot])
	if !ok {
		return ScopedIdentifier{}, false
	}
	member, ok := ParseIdentifier(s[dot+1:])
	if !ok {
		return ScopedIdentifier{}, false
	}
	return ScopedIdentifier{Module: mod, Member: member}, true
}

func (s ScopedIdentifier) String() string {
	return s.Module.String() + "." + s.Member.String()
}
