// Package hcl implements the HCL-specific side of item loading: parsing item
// files, translating `item` blocks into the format-agnostic config model, and
// binding raw attribute values to the Go input structs of handler modules.
package hcl
