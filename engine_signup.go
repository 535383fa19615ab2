package memberauth

import (
	"context"
	"fmt"
)

// SignUp creates an account. The email must carry a live verified marker (see
// [Engine.VerifyCode]); the marker is a time-limited grant, so a user who
// verified more than the configured window ago has to verify again.
//
// When the request carries a profile image it is uploaded through the
// [ImageStore]; otherwise the store's default key is recorded.
func (e *Engine) SignUp(ctx context.Context, req SignUpRequest) (int64, error) {
	if e.members == nil || e.verification == nil || e.passwords == nil {
		return 0, ErrEngineNotReady
	}
	if req.Email == "" || req.Password == "" || req.Nickname == "" {
		return 0, ErrInvalidInput
	}

	taken, err := e.members.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return 0, fmt.Errorf("member lookup: %w", err)
	}
	if taken {
		e.metricInc(MetricSignUpRejected)
		e.emitAudit(ctx, auditEventSignUp, false, 0, req.Email, ErrEmailAlreadyRegistered, nil)
		return 0, ErrEmailAlreadyRegistered
	}

	taken, err = e.members.ExistsByNickname(ctx, req.Nickname)
	if err != nil {
		return 0, fmt.Errorf("member lookup: %w", err)
	}
	if taken {
		e.metricInc(MetricSignUpRejected)
		e.emitAudit(ctx, auditEventSignUp, false, 0, req.Email, ErrNicknameTaken, nil)
		return 0, ErrNicknameTaken
	}

	verified, err := e.verification.Verified(ctx, req.Email)
	if err != nil {
		return 0, storeErr(err)
	}
	if !verified {
		e.metricInc(MetricSignUpRejected)
		e.emitAudit(ctx, auditEventSignUp, false, 0, req.Email, ErrEmailNotVerified, nil)
		return 0, ErrEmailNotVerified
	}

	hash, err := e.passwords.Hash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	imageKey, err := e.resolveProfileImage(ctx, req.ProfileImage)
	if err != nil {
		return 0, err
	}

	userID, err := e.members.CreateMember(ctx, CreateMemberInput{
		Email:           req.Email,
		PasswordHash:    hash,
		Nickname:        req.Nickname,
		ProfileImageKey: imageKey,
	})
	if err != nil {
		return 0, fmt.Errorf("create member: %w", err)
	}

	e.metricInc(MetricSignUpSuccess)
	e.emitAudit(ctx, auditEventSignUp, true, userID, req.Email, nil, nil)
	return userID, nil
}

// EmailAvailable reports whether no account uses the address. Query form of
// the duplicate check: never errors on "taken".
func (e *Engine) EmailAvailable(ctx context.Context, email string) (bool, error) {
	if e.members == nil {
		return false, ErrEngineNotReady
	}
	if email == "" {
		return false, ErrInvalidInput
	}
	taken, err := e.members.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("member lookup: %w", err)
	}
	return !taken, nil
}

// NicknameAvailable reports whether no account uses the nickname.
func (e *Engine) NicknameAvailable(ctx context.Context, nickname string) (bool, error) {
	if e.members == nil {
		return false, ErrEngineNotReady
	}
	if nickname == "" {
		return false, ErrInvalidInput
	}
	taken, err := e.members.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, fmt.Errorf("member lookup: %w", err)
	}
	return !taken, nil
}

// ProfileImageURL resolves a stored key to a display URL through the image
// store.
func (e *Engine) ProfileImageURL(ctx context.Context, key string) (string, error) {
	if e.images == nil {
		return "", ErrEngineNotReady
	}
	if key == "" {
		key = e.images.DefaultProfileKey()
	}
	return e.images.PresignedURL(ctx, key)
}

func (e *Engine) resolveProfileImage(ctx context.Context, image *ProfileImage) (string, error) {
	if e.images == nil {
		// No image store wired: accounts get an empty key and the host
		// application decides what to render.
		return "", nil
	}
	if image == nil {
		return e.images.DefaultProfileKey(), nil
	}
	key, err := e.images.Upload(ctx, *image)
	if err != nil {
		return "", fmt.Errorf("upload profile image: %w", err)
	}
	return key, nil
}
