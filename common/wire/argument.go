package wire

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// --- booleans ---------------------------------------------------------

type boolArg bool

func (a boolArg) EncodedSize() int { return 1 }
func (a boolArg) Encode(buf []byte) {
	if a {
		buf[0] = 't'
	} else {
		buf[0] = 'f'
	}
}

// Bool wraps a bool for encoding. The wire form is the single byte 't' or
// 'f'; nothing else is ever written or accepted.
func Bool(v bool) EncodeArgument { return boolArg(v) }

// DecodeBool decodes a boolean argument. Only the literal single bytes
// 't' and 'f' are accepted; "0", "1", "true" and "false" are rejected.
func DecodeBool(b []byte) (bool, bool) {
	if len(b) == 1 {
		switch b[0] {
		case 't':
			return true, true
		case 'f':
			return false, true
		}
	}
	return false, false
}

// --- bytes / strings (identity) ---------------------------------------

type bytesArg []byte

func (a bytesArg) EncodedSize() int   { return len(a) }
func (a bytesArg) Encode(buf []byte) { copy(buf, a) }

// Bytes wraps a raw bytestring for encoding, unchanged.
func Bytes(b []byte) EncodeArgument { return bytesArg(b) }

// DecodeBytes decodes a raw bytestring argument. Always succeeds; every
// byte sequence is a valid bytestring.
func DecodeBytes(b []byte) ([]byte, bool) { return b, true }

// String wraps a UTF-8 string for encoding.
func String(s string) EncodeArgument { return bytesArg(s) }

// DecodeString decodes a string argument, rejecting malformed or overlong
// UTF-8.
func DecodeString(b []byte) (string, bool) {
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// --- signed/unsigned integers ------------------------------------------

func digitCount(u uint64) int {
	if u == 0 {
		return 1
	}
	n := 0
	for u > 0 {
		u /= 10
		n++
	}
	return n
}

// magnitude returns |v| as an unsigned value, correctly handling
// math.MinInt64 (whose magnitude does not fit in int64).
func magnitude(v int64) uint64 {
	if v >= 0 {
		return uint64(v)
	}
	return uint64(^v) + 1
}

type intArg int64

func (a intArg) EncodedSize() int {
	n := digitCount(magnitude(int64(a)))
	if a < 0 {
		n++
	}
	return n
}

func (a intArg) Encode(buf []byte) {
	u := magnitude(int64(a))
	start := 0
	if a < 0 {
		buf[0] = '-'
		start = 1
	}
	if u == 0 {
		buf[start] = '0'
		return
	}
	idx := len(buf)
	for u > 0 {
		idx--
		buf[idx] = byte('0' + u%10)
		u /= 10
	}
}

type uintArg uint64

func (a uintArg) EncodedSize() int { return digitCount(uint64(a)) }

func (a uintArg) Encode(buf []byte) {
	u := uint64(a)
	if u == 0 {
		buf[0] = '0'
		return
	}
	idx := len(buf)
	for u > 0 {
		idx--
		buf[idx] = byte('0' + u%10)
		u /= 10
	}
}

// Int8, Int16, Int32, Int64 wrap signed integers of the given width for
// encoding as decimal ASCII with an optional leading '-' and no leading
// zeroes.
func Int8(v int8) EncodeArgument   { return intArg(v) }
func Int16(v int16) EncodeArgument { return intArg(v) }
func Int32(v int32) EncodeArgument { return intArg(v) }
func Int64(v int64) EncodeArgument { return intArg(v) }

// Uint8, Uint16, Uint32, Uint64 wrap unsigned integers of the given width
// for encoding as decimal ASCII with no sign and no leading zeroes.
func Uint8(v uint8) EncodeArgument   { return uintArg(v) }
func Uint16(v uint16) EncodeArgument { return uintArg(v) }
func Uint32(v uint32) EncodeArgument { return uintArg(v) }
func Uint64(v uint64) EncodeArgument { return uintArg(v) }

// DecodeInt64 decodes a signed decimal integer, rejecting empty input,
// leading zeroes (other than a bare "0"), leading whitespace, "-0", and
// magnitudes out of int64 range.
func DecodeInt64(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	neg := false
	s := b
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	u, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		if u == 0 {
			return 0, false // "-0" is not canonical
		}
		if u > uint64(math.MaxInt64)+1 {
			return 0, false
		}
		return -int64(u-1) - 1, true
	}
	if u > uint64(math.MaxInt64) {
		return 0, false
	}
	return int64(u), true
}

// DecodeUint64 decodes an unsigned decimal integer with the same
// canonical-form rules as DecodeInt64, minus the sign.
func DecodeUint64(b []byte) (uint64, bool) {
	if len(b) == 0 || b[0] == '-' {
		return 0, false
	}
	if len(b) > 1 && b[0] == '0' {
		return 0, false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	u, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return u, true
}

func decodeIntWidth(b []byte, min, max int64) (int64, bool) {
	n, ok := DecodeInt64(b)
	if !ok || n < min || n > max {
		return 0, false
	}
	return n, true
}

func decodeUintWidth(b []byte, max uint64) (uint64, bool) {
	n, ok := DecodeUint64(b)
	if !ok || n > max {
		return 0, false
	}
	return n, true
}

func DecodeInt8(b []byte) (int8, bool) {
	n, ok := decodeIntWidth(b, math.MinInt8, math.MaxInt8)
	return int8(n), ok
}

func DecodeInt16(b []byte) (int16, bool) {
	n, ok := decodeIntWidth(b, math.MinInt16, math.MaxInt16)
	return int16(n), ok
}

func DecodeInt32(b []byte) (int32, bool) {
	n, ok := decodeIntWidth(b, math.MinInt32, math.MaxInt32)
	return int32(n), ok
}

func DecodeUint8(b []byte) (uint8, bool) {
	n, ok := decodeUintWidth(b, math.MaxUint8)
	return uint8(n), ok
}

func DecodeUint16(b []byte) (uint16, bool) {
	n, ok := decodeUintWidth(b, math.MaxUint16)
	return uint16(n), ok
}

func DecodeUint32(b []byte) (uint32, bool) {
	n, ok := decodeUintWidth(b, math.MaxUint32)
	return uint32(n), ok
}

// --- optional values -----------------------------------------------------

type optionArg struct {
	inner EncodeArgument
}

func (o optionArg) EncodedSize() int {
	if o.inner == nil {
		return 0
	}
	return o.inner.EncodedSize()
}

func (o optionArg) Encode(buf []byte) {
	if o.inner != nil {
		o.inner.Encode(buf)
	}
}

// Option wraps inner for encoding as an optional argument: a nil inner
// encodes as the empty bytestring ("None"); any non-nil inner encodes
// exactly as inner would on its own ("Some(inner)").
func Option(inner EncodeArgument) EncodeArgument { return optionArg{inner: inner} }

// DecodeOption decodes an optional argument: the empty bytestring decodes
// to (nil, true); any other bytestring is handed to decode, failing if
// decode fails.
func DecodeOption[T any](b []byte, decode func([]byte) (T, bool)) (*T, bool) {
	if len(b) == 0 {
		return nil, true
	}
	v, ok := decode(b)
	if !ok {
		return nil, false
	}
	return &v, true
}
