// Package compiler turns raw source files into an immutable asset.Table.
// Every file is gzip-compressed deterministically, fingerprinted over the
// compressed bytes, typed through a static extension table, and given a
// symbol-safe name. Any failure aborts the whole build: Compile either returns
// a complete table or a *BuildError, never a partial result.
package compiler
