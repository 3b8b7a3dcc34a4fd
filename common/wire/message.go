// Package wire implements the VT6 wire codec: the netstring-like
// bytestring-list message format, its argument codec, and the
// human-readable Display form.
//
// Message parsing is zero-copy: the argument byte slices returned by
// Parse reference the input buffer directly. Callers must not discard or
// overwrite that buffer while a Message derived from it is still in use.
package wire

import (
	"strconv"

	"vt6.io/vt6d/common/identifier"
)

// Message is a parsed VT6 message: a MessageType plus an ordered sequence
// of argument bytestrings (the type name itself is not repeated among the
// arguments).
type Message struct {
	Type identifier.MessageType
	args [][]byte
}

// NumArguments returns the number of arguments after the type name.
func (m Message) NumArguments() int { return len(m.args) }

// Argument returns the i'th argument's raw bytes. Already-validated by
// Parse; this never fails.
func (m Message) Argument(i int) []byte { return m.args[i] }

// Arguments returns all argument bytestrings in order.
func (m Message) Arguments() [][]byte { return m.args }

type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) expect(b byte, kind ParseErrorKind) error {
	if c.pos >= len(c.buf) {
		return ErrUnexpectedEOF
	}
	if c.buf[c.pos] != b {
		return &ParseError{Kind: kind, Offset: c.pos}
	}
	c.pos++
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// decimal consumes a maximal run of ASCII digits and parses it, enforcing
// the no-leading-zeroes rule (a bare "0" is allowed). Running off the end
// of the buffer while still inside (or before) a digit run is reported as
// ErrUnexpectedEOF, since more digits may yet arrive.
func (c *cursor) decimal() (uint64, error) {
	start := c.pos
	for c.pos < len(c.buf) && isDigit(c.buf[c.pos]) {
		c.pos++
	}
	if c.pos == len(c.buf) {
		c.pos = start
		return 0, ErrUnexpectedEOF
	}
	digits := c.buf[start:c.pos]
	if len(digits) == 0 {
		return 0, &ParseError{Kind: ExpectedDecimalNumber, Offset: start}
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, &ParseError{Kind: DecimalNumberHasLeadingZeroes, Offset: start + 1}
	}
	n, err := strconv.ParseUint(string(digits), 10, strconv.IntSize)
	if err != nil {
		return 0, &ParseError{Kind: DecimalNumberTooLarge, Offset: start}
	}
	return n, nil
}

func (c *cursor) stringContents(count uint64) ([]byte, error) {
	if count > uint64(len(c.buf)-c.pos) {
		return nil, ErrUnexpectedEOF
	}
	n := int(count)
	data := c.buf[c.pos : c.pos+n]
	c.pos += n
	return data, nil
}

// Parse parses one message from the front of buf. On success it returns
// the Message and the number of bytes consumed. ErrUnexpectedEOF means buf
// does not yet hold a complete message; any other error is definitive and
// anchored at the offset it was detected.
func Parse(buf []byte) (Message, int, error) {
	c := &cursor{buf: buf}
	if err := c.expect('{', ExpectedMessageOpener); err != nil {
		return Message{}, 0, err
	}
	count, err := c.decimal()
	if err != nil {
		return Message{}, 0, err
	}
	if err := c.expect('|', ExpectedListSigil); err != nil {
		return Message{}, 0, err
	}
	if count == 0 {
		return Message{}, 0, &ParseError{Kind: ExpectedMessageType, Offset: c.pos}
	}

	args := make([][]byte, 0, count-1)
	var typ identifier.MessageType
	for i := uint64(0); i < count; i++ {
		itemStart := c.pos
		size, err := c.decimal()
		if err != nil {
			return Message{}, 0, err
		}
		if err := c.expect(':', ExpectedStringSigil); err != nil {
			return Message{}, 0, err
		}
		data, err := c.stringContents(size)
		if err != nil {
			return Message{}, 0, err
		}
		if err := c.expect(',', ExpectedStringCloser); err != nil {
			return Message{}, 0, err
		}
		if i == 0 {
			t, ok := identifier.ParseMessageType(string(data))
			if !ok {
				return Message{}, 0, &ParseError{Kind: InvalidMessageType, Offset: itemStart}
			}
			typ = t
		} else {
			args = append(args, data)
		}
	}
	if err := c.expect('}', ExpectedMessageCloser); err != nil {
		return Message{}, 0, err
	}
	return Message{Type: typ, args: args}, c.pos, nil
}
