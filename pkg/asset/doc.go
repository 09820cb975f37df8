// Package asset holds the immutable data model shared by the build-time
// compiler and the generated asset tables: compressed records, the single
// build-wide Last-Modified epoch, and the validated Table that binds them.
// A Table is constructed once (usually during package initialisation of the
// generated code) and is only ever read afterwards, so it can be shared by
// any number of concurrent request handlers without locking.
package asset
