package wire

// EncodableMessage is implemented by every concrete message type (in the
// msg and msg/... packages) so the dispatcher can format it directly into
// a send buffer without an intermediate allocation.
type EncodableMessage interface {
	// EncodeMessage writes the message into buf, returning the number of
	// bytes written, or a *BufferTooSmallError if buf is too small.
	EncodeMessage(buf []byte) (int, error)
}
