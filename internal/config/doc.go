// Package config defines the format-agnostic model of loaded item
// declarations: definitions, their ordered attributes, and the provenance
// records that diagnostics point back to. The model is produced by a
// format-specific loader (see internal/hcl) and is immutable once loaded.
package config
