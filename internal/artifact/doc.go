// Package artifact writes build outputs (generated Go source, manifest) under a
// single root directory. Every write goes through a temp file in the target
// directory followed by rename, so a failed or interrupted build never leaves a
// half-written artifact behind. Writers targeting the same path are serialised.
package artifact
