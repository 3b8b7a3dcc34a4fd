package clientid

import "testing"

func TestSuffixRoundTrip(t *testing.T) {
	cases := []Suffix{
		{Kind: Own},
		{Kind: Local, A: 0},
		{Kind: Local, A: 60},
		{Kind: Local, A: 61},
		{Kind: Job, A: 0},
		{Kind: Job, A: 12345},
		{Kind: Child, A: 1, B: 2},
		{Kind: Child, A: 0, B: 61},
	}
	for _, c := range cases {
		encoded := c.Encode()
		decoded, ok := DecodeSuffix(encoded)
		if !ok {
			t.Fatalf("DecodeSuffix(%q) failed for %+v", encoded, c)
		}
		if decoded != c {
			t.Fatalf("round trip mismatch: %+v -> %q -> %+v", c, encoded, decoded)
		}
	}
}

func TestSuffixEncodeSizeMatchesOutput(t *testing.T) {
	for _, num := range []uint32{0, 1, 60, 61, 62, 121, 122, 50000} {
		got := len(encodeNumber(num))
		want := SizeForNumber(num)
		if got != want {
			t.Errorf("SizeForNumber(%d) = %d, but encodeNumber produced %d bytes", num, want, got)
		}
	}
}

func TestDecodeSuffixRejectsGarbageTrailer(t *testing.T) {
	if _, ok := DecodeSuffix("!"); ok {
		t.Fatal("expected \"!\" to be rejected")
	}
}

func TestDecodeSuffixRejectsTrailingGarbageAfterJob(t *testing.T) {
	// A Job suffix followed by an extra, unparsable character is invalid.
	job := (Suffix{Kind: Job, A: 5}).Encode()
	if _, ok := DecodeSuffix(job + "!"); ok {
		t.Fatal("expected trailing garbage after a job suffix to be rejected")
	}
}

func TestRelativeClientIDRendersBaseAndSuffix(t *testing.T) {
	r := RelativeClientID{Base: "term", Suffix: Suffix{Kind: Job, A: 0}}
	if r.ClientID().String() != "term"+encodeNumber(0) {
		t.Fatalf("unexpected rendering: %s", r.ClientID().String())
	}
}
