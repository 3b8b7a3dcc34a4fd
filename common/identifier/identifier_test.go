package identifier

import "testing"

func TestParseModuleIdentifier(t *testing.T) {
	m, ok := ParseModuleIdentifier("core1")
	if !ok {
		t.Fatal("expected core1 to parse")
	}
	if m.Name != "core" || m.Major != 1 {
		t.Fatalf("unexpected parse: %+v", m)
	}
	if m.String() != "core1" {
		t.Fatalf("round trip mismatch: %s", m.String())
	}
}

func TestParseModuleIdentifierRejectsZeroMajor(t *testing.T) {
	if _, ok := ParseModuleIdentifier("core0"); ok {
		t.Fatal("expected core0 to be rejected (major must be non-zero)")
	}
}

func TestParseModuleIdentifierRejectsLeadingZeroes(t *testing.T) {
	if _, ok := ParseModuleIdentifier("core01"); ok {
		t.Fatal("expected core01 to be rejected (leading zeroes)")
	}
}

func TestParseModuleIdentifierRejectsMissingVersion(t *testing.T) {
	if _, ok := ParseModuleIdentifier("core"); ok {
		t.Fatal("expected bare \"core\" (no digits) to be rejected")
	}
}

func TestParseModuleVersion(t *testing.T) {
	v, ok := ParseModuleVersion("posix1.2")
	if !ok {
		t.Fatal("expected posix1.2 to parse")
	}
	if v.Name != "posix" || v.Major != 1 || v.Minor != 2 {
		t.Fatalf("unexpected parse: %+v", v)
	}
	if v.String() != "posix1.2" {
		t.Fatalf("round trip mismatch: %s", v.String())
	}
}

func TestParseModuleVersionAllowsZeroMinor(t *testing.T) {
	v, ok := ParseModuleVersion("core1.0")
	if !ok || v.Minor != 0 {
		t.Fatalf("expected core1.0 to parse with minor 0, got %+v, ok=%v", v, ok)
	}
}

func TestParseScopedIdentifier(t *testing.T) {
	s, ok := ParseScopedIdentifier("core1.want")
	if !ok {
		t.Fatal("expected core1.want to parse")
	}
	if s.Module.Name != "core" || s.Module.Major != 1 || s.Member != "want" {
		t.Fatalf("unexpected parse: %+v", s)
	}
}

func TestIsIdentifier(t *testing.T) {
	cases := map[string]bool{
		"foo":     true,
		"foo_bar": true,
		"foo-1":   true,
		"1foo":    false,
		"":        false,
		"-foo":    false,
	}
	for s, want := range cases {
		if got := IsIdentifier(s); got != want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
