package memberauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/sjpark-dev/memberauth/kv"
	"github.com/sjpark-dev/memberauth/token"
)

// Login validates credentials and opens a session: a fresh access/refresh
// pair is minted and the refresh token becomes the single live one for the
// user, revoking any earlier session's refresh token by overwrite.
//
// ErrMemberNotFound and ErrInvalidPassword are distinct sentinels; transport
// layers that must not reveal which one failed collapse them via [ErrorCode].
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (LoginResult, error) {
	if e.members == nil || e.tokens == nil || e.refreshTokens == nil {
		return LoginResult{}, ErrEngineNotReady
	}
	if email == "" || plainPassword == "" {
		return LoginResult{}, ErrInvalidInput
	}

	member, err := e.members.FindAuthInfoByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, 0, email, ErrMemberNotFound, nil)
			return LoginResult{}, ErrMemberNotFound
		}
		return LoginResult{}, fmt.Errorf("member lookup: %w", err)
	}

	if !e.passwords.Verify(plainPassword, member.PasswordHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, member.UserID, email, ErrInvalidPassword, nil)
		return LoginResult{}, ErrInvalidPassword
	}

	pair, err := e.issueTokens(ctx, member.UserID, member.Email, member.Role)
	if err != nil {
		return LoginResult{}, err
	}

	// Best effort: a failed timestamp update must not fail the login.
	if err := e.members.TouchLastLogin(ctx, member.UserID); err != nil {
		e.logger.Warn("last-login update failed", "user_id", member.UserID, "err", err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLogin, true, member.UserID, email, nil, nil)

	return LoginResult{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		UserID:          member.UserID,
		Email:           member.Email,
		Nickname:        member.Nickname,
		ProfileImageKey: member.ProfileImageKey,
	}, nil
}

// Refresh rotates a session. The presented token must be cryptographically
// valid AND byte-for-byte equal to the stored record: a token superseded by a
// later login or refresh fails the comparison and is rejected as invalid even
// though its signature still verifies. Claims are re-fetched from the member
// provider so a role change since login shows up in the new pair.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if e.members == nil || e.tokens == nil || e.refreshTokens == nil {
		return TokenPair{}, ErrEngineNotReady
	}
	if refreshToken == "" {
		return TokenPair{}, ErrInvalidInput
	}

	claims, err := e.tokens.Parse(refreshToken)
	switch {
	case errors.Is(err, token.ErrExpired):
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, 0, "", ErrTokenExpired, nil)
		return TokenPair{}, ErrTokenExpired
	case err != nil:
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, 0, "", ErrTokenInvalid, nil)
		return TokenPair{}, ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return TokenPair{}, ErrTokenInvalid
	}

	stored, err := e.refreshTokens.Get(ctx, userID)
	if errors.Is(err, kv.ErrNotFound) {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, userID, "", ErrRefreshTokenNotFound, nil)
		return TokenPair{}, ErrRefreshTokenNotFound
	}
	if err != nil {
		return TokenPair{}, storeErr(err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, false, userID, "", ErrTokenInvalid, nil)
		return TokenPair{}, ErrTokenInvalid
	}

	info, err := e.members.FindTokenInfoByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshFailure, false, userID, "", ErrMemberNotFound, nil)
			return TokenPair{}, ErrMemberNotFound
		}
		return TokenPair{}, fmt.Errorf("member lookup: %w", err)
	}

	pair, err := e.issueTokens(ctx, info.UserID, info.Email, info.Role)
	if err != nil {
		return TokenPair{}, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefresh, true, userID, info.Email, nil, nil)
	return pair, nil
}

// Logout revokes the user's refresh token. Idempotent: logging out an
// already-logged-out user succeeds. Outstanding access tokens stay valid
// until their natural expiry; there is no server-side access revocation.
func (e *Engine) Logout(ctx context.Context, userID int64) error {
	if e.refreshTokens == nil {
		return ErrEngineNotReady
	}
	if userID <= 0 {
		return ErrInvalidInput
	}

	if err := e.refreshTokens.Delete(ctx, userID); err != nil {
		return storeErr(err)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, "", nil, nil)
	return nil
}

// issueTokens mints a fresh pair and persists the refresh side as the user's
// single live record.
func (e *Engine) issueTokens(ctx context.Context, userID int64, email, role string) (TokenPair, error) {
	access, err := e.tokens.CreateAccess(userID, email, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint access token: %w", err)
	}
	refresh, err := e.tokens.CreateRefresh(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("mint refresh token: %w", err)
	}
	if err := e.refreshTokens.Save(ctx, userID, refresh, e.tokens.RefreshTTL()); err != nil {
		return TokenPair{}, storeErr(err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
