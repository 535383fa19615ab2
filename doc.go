// Package memberauth implements the authentication core of a member-facing
// backend: email one-time-code verification, credential validation, signed
// access/refresh token issuance and rotation, and account sign-up gated on a
// verified email.
//
// All time-bounded state (verification codes, resend cooldowns, attempt
// counters, verified markers, refresh-token records) lives in a shared
// key-value store behind the [kv.Store] adapter, so the engine survives
// process restarts and runs unchanged across horizontally scaled replicas.
// Engine methods are safe for concurrent use after construction through
// [Builder.Build].
//
// # Architecture boundaries
//
// memberauth is the public surface. Persistence of member rows, email
// transport, and image storage are collaborators supplied by the caller
// through the [MemberProvider], [Mailer], and [ImageStore] interfaces; the
// engine never implements them. Token signing lives in the token subpackage,
// password hashing in password, and the key-value adapter in kv.
//
// # Consistency model
//
// Every store call is individually atomic, but multi-key sequences are not
// wrapped in transactions. Two near-simultaneous code requests for the same
// email interleave and the last writer wins; attempt counting is approximate
// under races. This is an anti-abuse control, not a ledger, and the weaker
// guarantee is deliberate. The refresh record is overwritten unconditionally,
// which makes the previous token invalid without compare-and-swap: a racing
// refresh and logout leave either a fresh token or none, never a corrupt one.
package memberauth
