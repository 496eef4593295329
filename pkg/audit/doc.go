// Package audit records security-relevant events: CSRF verification
// failures, authorization denials and rate-limit violations. Events carry
// the acting subject, the client address and free-form metadata, and are
// handed to a pluggable Storage. SlogStorage ships as the default sink so
// the audit trail lands in the structured application log.
package audit
