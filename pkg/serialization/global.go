package serialization

import "github.com/matzehuels/bundledeps/pkg/errors"

var global = NewRegistry()

// Global returns the process-wide registry populated by Init.
func Global() *Registry { return global }

// Init registers kinds in the process-wide registry and seals it.
// It must run once, before any graph construction; a second call fails with
// REGISTRY_SEALED.
func Init(kinds ...Kind) error {
	if global.Sealed() {
		return errors.New(errors.ErrCodeRegistrySealed, "serialization registry already initialized")
	}
	if err := global.RegisterAll(kinds...); err != nil {
		return err
	}
	global.Seal()
	return nil
}
