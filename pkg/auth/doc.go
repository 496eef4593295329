// Package auth binds an authenticated identity to the session and checks
// credentials. Login regenerates the session identifier before attaching
// the identity, so a fixated pre-login identifier never survives the
// privilege change.
//
// Password hashing uses bcrypt; hashes are self-describing and safe to
// store alongside the user record.
package auth
