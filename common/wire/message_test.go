package wire

import "testing"

func TestParseRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	f := NewMessageFormatter(buf, "core1.want", 1)
	f.AddArgument(String("foo1"))
	n, err := f.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	msg, consumed, err := Parse(buf[:n])
	if err != nil {
		t.Fatal(err)
	}
	if consumed != n {
		t.Fatalf("consumed %d, want %d", consumed, n)
	}
	if msg.Type.String() != "core1.want" {
		t.Fatalf("unexpected type: %s", msg.Type.String())
	}
	if msg.NumArguments() != 1 {
		t.Fatalf("expected 1 argument, got %d", msg.NumArguments())
	}
	arg, ok := DecodeString(msg.Argument(0))
	if !ok || arg != "foo1" {
		t.Fatalf("unexpected argument: %q, ok=%v", arg, ok)
	}
}

func TestParseUnexpectedEOF(t *testing.T) {
	buf := make([]byte, 64)
	f := NewMessageFormatter(buf, "core1.want", 1)
	f.AddArgument(String("foo1"))
	n, err := f.Finalize()
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < n; i++ {
		if _, _, err := Parse(buf[:i]); err != ErrUnexpectedEOF {
			t.Fatalf("truncated to %d bytes: expected ErrUnexpectedEOF, got %v", i, err)
		}
	}
}

func TestParseRejectsLeadingZeroes(t *testing.T) {
	_, _, err := Parse([]byte("{01|3:foo,}"))
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Kind != DecimalNumberHasLeadingZeroes {
		t.Fatalf("unexpected error kind: %v", perr.Kind)
	}
}

func TestParseEmptyCount(t *testing.T) {
	_, _, err := Parse([]byte("{0|}"))
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if perr.Kind != ExpectedMessageType {
		t.Fatalf("unexpected error kind: %v", perr.Kind)
	}
}
