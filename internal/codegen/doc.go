// Package codegen turns a compiled asset.Table into Go source that embeds every
// payload as a byte literal, plus an optional YAML manifest describing the build.
// The generated file imports only pkg/asset and pkg/webasset, so applications
// link the responder without pulling in the build tooling.
package codegen
