// Package kv defines the key-value store adapter the authentication engine
// keeps all of its time-bounded state in, plus the Redis implementation.
//
// The adapter is deliberately narrow: get, set-with-expiry (minute and second
// granularity), delete, and increment-with-expiry. Expiry on increment is
// applied only when the increment creates the key, which gives callers a
// fixed counting window rather than a sliding one.
//
// # What this package must NOT do
//
//   - Wrap multi-key sequences in transactions; every call is individually
//     atomic and nothing more.
//   - Import memberauth or any sibling package.
package kv
