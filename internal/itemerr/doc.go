// Package itemerr defines the error taxonomy of the compilation pipeline and
// the per-definition report that aggregates every failure before anything is
// surfaced to the caller.
//
// Two recoverable families exist. Component errors (unknown attribute, custom
// component failure, custom transformer failure) come out of resolution;
// validation errors (missing field, unexpected type) come out of schema
// checking. Both carry nested suberrors and a source record so the reporter
// can localize each problem. Fatal configuration errors (duplicate
// definitions or registrations, cyclic inheritance) are ordinary Go errors
// raised by the packages that detect them and abort the whole build.
package itemerr
