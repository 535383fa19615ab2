// Package password hashes and verifies member credentials with bcrypt.
//
// Verification fails closed: a malformed stored hash and a wrong password are
// indistinguishable to the caller, so nothing about the failure mode leaks.
package password
