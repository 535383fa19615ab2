package memberauth

import "errors"

var (
	// ErrRateLimited is returned by [Engine.RequestCode] while the 60-second
	// resend cooldown for the address is still active.
	ErrRateLimited = errors.New("verification code recently sent, retry later")
	// ErrCodeExpired is returned by [Engine.VerifyCode] when no code is stored
	// for the address. An expired code and a never-sent code are deliberately
	// indistinguishable.
	ErrCodeExpired = errors.New("verification code expired")
	// ErrCodeMismatch is returned by [Engine.VerifyCode] when the submitted
	// code does not match the stored one.
	ErrCodeMismatch = errors.New("verification code mismatch")
	// ErrVerificationBlocked is returned once the failed-attempt counter for
	// the address reaches its maximum; it clears when the attempt window expires.
	ErrVerificationBlocked = errors.New("verification attempts exceeded")
	// ErrEmailAlreadyRegistered signals a duplicate account email.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrNicknameTaken signals a duplicate nickname during sign-up.
	ErrNicknameTaken = errors.New("nickname already in use")
	// ErrEmailNotVerified is returned by [Engine.SignUp] when the address has
	// no live verified marker.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrMemberNotFound signals that no account exists for the given email or
	// user ID. [MemberProvider] implementations must return it on a miss.
	ErrMemberNotFound = errors.New("member not found")
	// ErrInvalidPassword signals a failed credential check. Malformed stored
	// hashes map here as well; the engine never distinguishes the two.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrTokenInvalid covers structural and signature failures, and refresh
	// tokens superseded by rotation.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired signals a token past its expiry. Claims of an expired
	// token remain extractable.
	ErrTokenExpired = errors.New("expired token")
	// ErrRefreshTokenNotFound signals that no refresh record exists for the
	// token's subject (logged out or naturally expired).
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrInvalidInput signals an empty or malformed argument.
	ErrInvalidInput = errors.New("invalid input value")
	// ErrStoreUnavailable wraps key-value store transport failures.
	ErrStoreUnavailable = errors.New("key-value store unavailable")
	// ErrEngineNotReady is returned when a required collaborator was not wired.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// ErrorCode maps an engine error to the stable short code used by transport
// layers when building error envelopes. Unknown (infrastructure) errors map
// to the generic internal-error code so internals never leak to clients.
//
// ErrMemberNotFound and ErrInvalidPassword intentionally share a code: login
// responses should not reveal which of the two failed.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "C001"
	case errors.Is(err, ErrEmailAlreadyRegistered):
		return "M001"
	case errors.Is(err, ErrNicknameTaken):
		return "M002"
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, ErrInvalidPassword):
		return "M004"
	case errors.Is(err, ErrEmailNotVerified):
		return "M005"
	case errors.Is(err, ErrTokenInvalid):
		return "A001"
	case errors.Is(err, ErrTokenExpired):
		return "A002"
	case errors.Is(err, ErrRefreshTokenNotFound):
		return "A003"
	case errors.Is(err, ErrCodeExpired):
		return "E002"
	case errors.Is(err, ErrCodeMismatch):
		return "E003"
	case errors.Is(err, ErrRateLimited):
		return "E005"
	case errors.Is(err, ErrVerificationBlocked):
		return "E006"
	default:
		return "C003"
	}
}
