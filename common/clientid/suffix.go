// Package clientid implements the compact ClientIDSuffix encoding used to
// derive per-process child/job/local-lifetime client IDs from a base
// ClientID without a central allocator.
package clientid

import "strings"

const lookupTable = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Kind distinguishes the four suffix shapes.
type Kind int

const (
	// Own denotes the base ClientID itself, with no suffix.
	Own Kind = iota
	// Local denotes a local-lifetime derivation, prefixed with '0'.
	Local
	// Job denotes a job-lifetime derivation.
	Job
	// Child denotes a (job, child) pair of derivations.
	Child
)

// Suffix is a compact encoding of a derived client lifetime under some
// base ClientID. The zero value is Own.
type Suffix struct {
	Kind Kind
	// A holds the Local or Job number, or the job half of a Child pair.
	A uint32
	// B holds the child half of a Child pair.
	B uint32
}

// SizeForNumber returns the number of alphabet symbols encodeNumber will
// emit for num, i.e. 1 + ⌊(num+1)/61⌋.
func SizeForNumber(num uint32) int {
	return 1 + int((uint64(num)+1)/61)
}

// encodeNumber renders num using the 62-symbol alphabet, shifting by +1 so
// that the codeword is never all continuation markers for num == 0, and
// emitting 'z' as a continuation marker whenever the remaining value is
// still >= 61.
func encodeNumber(num uint32) string {
	n := uint64(num) + 1
	var sb strings.Builder
	for {
		if n >= 61 {
			sb.WriteByte('z')
			n -= 61
		} else {
			sb.WriteByte(lookupTable[n])
			break
		}
	}
	return sb.String()
}

func decodeNumber(s string) (num uint32, rest string, ok bool) {
	n := uint64(0)
	i := 0
	for i < len(s) && s[i] == 'z' {
		n += 61
		i++
	}
	if i >= len(s) {
		return 0, s, false
	}
	idx := strings.IndexByte(lookupTable, s[i])
	if idx < 0 {
		return 0, s, false
	}
	n += uint64(idx)
	if n == 0 {
		// encodeNumber always shifts by +1, so a zero codeword never occurs
		return 0, s, false
	}
	return uint32(n - 1), s[i+1:], true
}

// Encode renders the suffix's string form (without the base ClientID).
func (s Suffix) Encode() string {
	switch s.Kind {
	case Own:
		return ""
	case Local:
		return "0" + encodeNumber(s.A)
	case Job:
		return encodeNumber(s.A)
	case Child:
		return encodeNumber(s.A) + encodeNumber(s.B)
	default:
		panic("clientid: invalid Suffix.Kind")
	}
}

// DecodeSuffix parses a suffix string (everything after the base
// ClientID).
func DecodeSuffix(s string) (Suffix, bool) {
	if s == "" {
		return Suffix{Kind: Own}, true
	}
	if s[0] == '0' {
		num, rest, ok := decodeNumber(s[1:])
		if !ok || rest != "" {
			return Suffix{}, false
		}
		return Suffix{Kind: Local, A: num}, true
	}
	num1, rest, ok := decodeNumber(s)
	if !ok {
		return Suffix{}, false
	}
	if rest == "" {
		return Suffix{Kind: Job, A: num1}, true
	}
	num2, rest2, ok := decodeNumber(rest)
	if !ok || rest2 != "" {
		return Suffix{}, false
	}
	return Suffix{Kind: Child, A: num1, B: num2}, true
}
