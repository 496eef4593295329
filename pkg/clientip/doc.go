// Package clientip resolves the originating client address of an HTTP
// request, preferring reverse-proxy headers over the raw remote address.
// The resolved address feeds the rate limiter's key namespace and the
// security audit log.
package clientip
