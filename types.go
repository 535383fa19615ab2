package memberauth

import (
	"context"
	"io"
)

// MemberAuthInfo is the minimal member projection the login flow needs.
type MemberAuthInfo struct {
	UserID          int64
	Email           string
	PasswordHash    string
	Nickname        string
	ProfileImageKey string
	Role            string
}

// MemberTokenInfo is the minimal projection needed to mint fresh claims
// during token rotation. Fetched again on every refresh so a role change
// since login is reflected in the new pair.
type MemberTokenInfo struct {
	UserID int64
	Email  string
	Role   string
}

// CreateMemberInput is passed to [MemberProvider.CreateMember] after the
// engine has validated duplicates, the verified marker, and hashed the
// password.
type CreateMemberInput struct {
	Email           string
	PasswordHash    string
	Nickname        string
	ProfileImageKey string
}

// MemberProvider is the account repository collaborator. Implementations must
// return [ErrMemberNotFound] from the two lookup methods when no row matches.
type MemberProvider interface {
	FindAuthInfoByEmail(ctx context.Context, email string) (MemberAuthInfo, error)
	FindTokenInfoByID(ctx context.Context, userID int64) (MemberTokenInfo, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	CreateMember(ctx context.Context, input CreateMemberInput) (int64, error)
	TouchLastLogin(ctx context.Context, userID int64) error
}

// Mailer delivers one message. The engine only ever calls it from the mail
// dispatcher's worker goroutines; a returned error triggers the compensating
// cleanup of the verification keys, and is never surfaced to the original
// caller.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ProfileImage is an uploaded image handed through to the [ImageStore].
type ProfileImage struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ImageStore stores profile images and resolves their display URLs. Consumed
// only by sign-up, never by the auth flows.
type ImageStore interface {
	Upload(ctx context.Context, image ProfileImage) (string, error)
	PresignedURL(ctx context.Context, key string) (string, error)
	DefaultProfileKey() string
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	AccessToken     string
	RefreshToken    string
	UserID          int64
	Email           string
	Nickname        string
	ProfileImageKey string
}

// SignUpRequest is the input for [Engine.SignUp]. ProfileImage may be nil,
// in which case the image store's default key is used.
type SignUpRequest struct {
	Email        string
	Password     string
	Nickname     string
	ProfileImage *ProfileImage
}
