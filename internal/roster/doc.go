// Package roster loads the people eligible for pairing and resolves the
// identifiers (display names and emails) that refer to them.
//
// A Registry is an arena: people live in a slice indexed by a dense integer
// ID assigned in roster order at load time. IDs are never reused or
// renumbered, and a Registry is read-only once built.
//
// Every name and every email binds to exactly one ID. A roster in which two
// people share an identifier does not produce a Registry at all; the load
// fails with a *DuplicateIdentifierError.
package roster
