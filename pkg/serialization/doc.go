// Package serialization persists polymorphic objects as typed records.
//
// A record is an ordered list of field values prefixed by a stable registry
// identifier. Each concrete kind writes its own fields in a fixed order and
// reads them back in the same order; the [Registry] maps identifiers to
// constructors so that generic code can rebuild an instance from a record
// without knowing the concrete type at compile time.
//
// # Record format
//
// Records are BSON documents with a single array field "r":
//
//	{ "r": [ "<identifier>", field1, field2, ... ] }
//
// A stream of records is the plain concatenation of such documents; BSON
// documents are length-prefixed so no extra framing is needed.
//
// # Lifecycle
//
// Kinds are registered once during initialization and the registry is then
// sealed. After sealing, lookups are lock-free and safe for concurrent use by
// any number of build workers:
//
//	if err := serialization.Init(wasm.Kinds()...); err != nil {
//	    log.Fatal(err)
//	}
//	data, err := serialization.Encode(serialization.Global(), dep)
//
// Decoding a record whose identifier is not registered fails with an
// UNKNOWN_KIND error. Callers restoring from a cache must treat that as a
// full cache miss; records are never partially recovered.
package serialization
