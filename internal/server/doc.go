// Package server hosts the Fiber preview service: request middleware, the
// swappable asset library that watch mode replaces after each rebuild, and the
// handlers that answer asset requests through the webasset responder. It is a
// development aid; production binaries mount the generated table directly.
package server
