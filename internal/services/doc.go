// Package services defines the shared error taxonomy for pipeline stages and
// context annotation helpers used by logging.
//
// Stage failures are tagged with one of the exported sentinel errors so the
// action layer can classify them without string matching. Wrap attaches stage
// and operation context while preserving the sentinel for errors.Is checks.
package services
