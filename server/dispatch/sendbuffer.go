package dispatch

import "vt6.io/vt6d/common/wire"

// sendBufferSize pages SendBuffer at 4072 bytes: on a 64-bit platform that
// makes sizeof(SendBuffer) 4080, which leaves exactly enough room for a
// general-purpose allocator's 8-16 bytes of bookkeeping to still fit the
// whole allocation into one 4 KiB page.
const sendBufferSize = 4072

// SendBuffer is a fixed-capacity outbound byte buffer with a filled
// watermark. It supports all-or-nothing message append (TryFillMessage)
// and best-effort streaming append (AppendStdin). Recycled between
// transmitter drain cycles rather than freed.
type SendBuffer struct {
	buf    [sendBufferSize]byte
	filled int
}

// Filled returns the portion of buf already written.
func (b *SendBuffer) Filled() []byte { return b.buf[:b.filled] }

// FilledLen reports how many bytes of buf are already written.
func (b *SendBuffer) FilledLen() int { return b.filled }

// Clear resets the buffer to empty so it can be recycled.
func (b *SendBuffer) Clear() { b.filled = 0 }

// TryFillMessage attempts to encode m into the buffer's remaining room. It
// returns false (leaving the buffer unchanged) if there is not enough
// room; the caller should then try a different (or fresh) buffer.
func (b *SendBuffer) TryFillMessage(m wire.EncodableMessage) bool {
	n, err := m.EncodeMessage(b.buf[b.filled:])
	if err != nil {
		return false
	}
	b.filled += n
	return true
}

// AppendStdin greedily copies as much of data as fits into the buffer's
// remaining room, returning the unwritten remainder (possibly empty).
func (b *SendBuffer) AppendStdin(data []byte) []byte {
	room := len(b.buf) - b.filled
	if room <= 0 {
		return data
	}
	n := copy(b.buf[b.filled:], data)
	b.filled += n
	return data[n:]
}
