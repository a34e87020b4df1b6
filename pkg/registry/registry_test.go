package registry

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/modstack/modprep/pkg/conventions"
)

func TestRegisterIdempotent(t *testing.T) {
	reg := New("/cache/modules")
	id := conventions.ModuleIdentity{Base: "R7.0.2-2.0", Name: "asyn", Tag: "R4.39"}

	if err := reg.Register("ASYN", id); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := reg.Register("ASYN", id); err != nil {
		t.Fatalf("re-registration with same identity should be a no-op: %v", err)
	}

	if reg.Len() != 1 {
		t.Errorf("expected 1 registered variable, got %d", reg.Len())
	}
}

func TestRegisterConflictReported(t *testing.T) {
	reg := New("/cache/modules")

	if err := reg.Register("ASYN", conventions.ModuleIdentity{Name: "asyn", Tag: "R4.39"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := reg.Register("ASYN", conventions.ModuleIdentity{Name: "asyn", Tag: "R4.41"})
	if !errors.Is(err, ErrIdentityConflict) {
		t.Fatalf("expected ErrIdentityConflict, got %v", err)
	}

	// The original identity must survive.
	id, ok := reg.Identity("ASYN")
	if !ok || id.Tag != "R4.39" {
		t.Errorf("expected original identity to be kept, got %+v", id)
	}
}

func TestPathForVariable(t *testing.T) {
	reg := New("/cache/modules")
	id := conventions.ModuleIdentity{Base: "R7.0.2-2.0", Name: "asyn", Tag: "R4.39-branch"}
	if err := reg.Register("ASYN", id); err != nil {
		t.Fatal(err)
	}

	path, ok := reg.PathForVariable("ASYN")
	if !ok {
		t.Fatal("expected path for registered variable")
	}
	want := filepath.Join("/cache/modules", "asyn-R4.39")
	if path != want {
		t.Errorf("PathForVariable = %q, want %q", path, want)
	}

	if _, ok := reg.PathForVariable("UNKNOWN"); ok {
		t.Error("expected no path for unregistered variable")
	}
}

func TestVariablesSorted(t *testing.T) {
	reg := New("/cache/modules")
	for _, v := range []string{"SSCAN", "ASYN", "CALC"} {
		if err := reg.Register(v, conventions.ModuleIdentity{Name: v}); err != nil {
			t.Fatal(err)
		}
	}

	got := reg.Variables()
	want := []string{"ASYN", "CALC", "SSCAN"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Variables() = %v, want %v", got, want)
		}
	}
}
