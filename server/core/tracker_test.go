package core

import (
	"testing"

	"vt6.io/vt6d/common/identifier"
)

func TestTrackerEnableAndQuery(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.IsModuleEnabled("core"); ok {
		t.Fatal("expected core to start disabled")
	}

	v := identifier.ModuleVersion{ModuleIdentifier: identifier.ModuleIdentifier{Name: "core", Major: 1}, Minor: 3}
	tr.EnableModule("core", v)

	got, ok := tr.IsModuleEnabled("core")
	if !ok || got != v {
		t.Fatalf("unexpected tracked version: %+v, ok=%v", got, ok)
	}
}

func TestTrackerEnableTwicePanics(t *testing.T) {
	tr := NewTracker()
	v := identifier.ModuleVersion{ModuleIdentifier: identifier.ModuleIdentifier{Name: "posix", Major: 1}, Minor: 0}
	tr.EnableModule("posix", v)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on the second enable_module for the same name")
		}
	}()
	tr.EnableModule("posix", v)
}

func TestSameMajorIgnoresMinor(t *testing.T) {
	agreed := identifier.ModuleVersion{ModuleIdentifier: identifier.ModuleIdentifier{Name: "core", Major: 1}, Minor: 5}
	want := identifier.ModuleIdentifier{Name: "core", Major: 1}
	if !sameMajor(agreed, want) {
		t.Fatal("expected same-major versions to be compatible regardless of minor")
	}

	other := identifier.ModuleIdentifier{Name: "core", Major: 2}
	if sameMajor(agreed, other) {
		t.Fatal("expected differing majors to be incompatible")
	}
}
