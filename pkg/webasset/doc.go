// Package webasset installs conditional-caching handlers for a compiled
// asset.Table. The host HTTP server is modelled as an injected capability
// (Host registers handlers, Request exposes headers), so the responder has no
// compile-time dependency on any particular server; see the httphost and
// fiberhost sub-packages for ready-made adapters.
//
// Each handler evaluates, in order:
//
//  1. If-Modified-Since equal to the build epoch (exact string) → 304, no headers.
//  2. If-None-Match equal to the fingerprint (exact string) → 304 with
//     Cache-Control and ETag.
//  3. Otherwise → 200 with the precompressed payload.
//
// Handlers are pure functions of immutable data and request headers and are
// safe for concurrent use.
package webasset
