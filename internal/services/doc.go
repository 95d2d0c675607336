// Package services defines shared error utilities consumed by the pipeline
// and external integrations.
//
// The structured error markers plus the Wrap helper translate failures into a
// consistent classification: configuration errors abort the run, everything
// else is recorded against the file being processed.
package services
