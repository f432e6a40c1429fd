// Package vanilla supplies the structural schemas of the vanilla item fields
// the compiler knows about. It is the concrete validate.Catalog used by the
// application; tests substitute their own catalogs where narrower shapes make
// assertions sharper.
package vanilla
