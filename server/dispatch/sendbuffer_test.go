package dispatch

import (
	"strings"
	"testing"

	"vt6.io/vt6d/msg/posix"
)

func TestSendBufferTryFillMessage(t *testing.T) {
	var b SendBuffer
	if b.FilledLen() != 0 {
		t.Fatalf("expected empty buffer, got %d filled", b.FilledLen())
	}

	ok := b.TryFillMessage(posix.ClientHello{Secret: "abc"})
	if !ok {
		t.Fatal("expected a small message to fit an empty buffer")
	}
	if b.FilledLen() == 0 {
		t.Fatal("expected FilledLen to advance after a successful fill")
	}
}

func TestSendBufferTryFillMessageTooLarge(t *testing.T) {
	var b SendBuffer
	huge := strings.Repeat("x", sendBufferSize+1)
	ok := b.TryFillMessage(posix.ClientHello{Secret: huge})
	if ok {
		t.Fatal("expected an oversized message to fail to fit")
	}
	if b.FilledLen() != 0 {
		t.Fatal("a failed fill must not advance the buffer")
	}
}

func TestSendBufferClearResetsFilled(t *testing.T) {
	var b SendBuffer
	b.TryFillMessage(posix.ClientHello{Secret: "abc"})
	b.Clear()
	if b.FilledLen() != 0 {
		t.Fatal("expected Clear to reset FilledLen to 0")
	}
}

func TestSendBufferAppendStdinSpillsRemainder(t *testing.T) {
	var b SendBuffer
	data := make([]byte, sendBufferSize+10)
	for i := range data {
		data[i] = byte('a' + i%26)
	}
	remainder := b.AppendStdin(data)
	if len(remainder) != 10 {
		t.Fatalf("expected 10 leftover bytes, got %d", len(remainder))
	}
	if b.FilledLen() != sendBufferSize {
		t.Fatalf("expected buffer to fill completely, got %d", b.FilledLen())
	}
}
