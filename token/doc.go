// Package token issues and validates the engine's signed access and refresh
// tokens (HS256 JWTs).
//
// Parsing an expired token is a partial success: the caller still receives
// the decoded claims alongside [ErrExpired], because rotation and diagnostic
// paths need the subject of a token that is no longer valid. Claims behind a
// bad signature are never returned.
package token
