package serialization

import (
	"testing"

	"github.com/matzehuels/bundledeps/pkg/errors"
)

func TestInitSealsGlobalRegistry(t *testing.T) {
	if err := Init(Kind{ID: "id-K", New: newFake}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !Global().Sealed() {
		t.Fatal("Global() should be sealed after Init")
	}
	if _, err := Global().Lookup("id-K"); err != nil {
		t.Errorf("Lookup() error = %v", err)
	}

	err := Init(Kind{ID: "id-O", New: newOther})
	if !errors.Is(err, errors.ErrCodeRegistrySealed) {
		t.Errorf("second Init() error = %v, want %s", err, errors.ErrCodeRegistrySealed)
	}
}
