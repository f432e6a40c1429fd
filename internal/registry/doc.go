// Package registry provides the central mapping between attribute kind names
// and the compiled Go handlers that resolve them.
//
// Handlers come in two families. A Component turns one declared attribute
// into a rendered fragment that is deep-merged into the item output; it may
// introduce arbitrary new top-level fields. A Transformer replaces the value
// of the attribute it binds to, and nothing else.
//
// All handler registration happens at application startup, before any
// definition is resolved. Lookups are by name, so registration order does not
// affect behavior.
package registry
