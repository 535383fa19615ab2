package internaldefs

import (
	memberauth "github.com/sjpark-dev/memberauth"
)

// CounterDef binds a core metric ID to its stable export name and help text.
type CounterDef struct {
	ID   memberauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in declaration order. Both
// exporters render from this single table so their metric names never drift.
var CounterDefs = []CounterDef{
	{ID: memberauth.MetricLoginSuccess, Name: "memberauth_login_success_total", Help: "Successful logins."},
	{ID: memberauth.MetricLoginFailure, Name: "memberauth_login_failure_total", Help: "Failed login attempts (unknown member or bad password)."},
	{ID: memberauth.MetricRefreshSuccess, Name: "memberauth_refresh_success_total", Help: "Successful token rotations."},
	{ID: memberauth.MetricRefreshFailure, Name: "memberauth_refresh_failure_total", Help: "Rejected token rotations."},
	{ID: memberauth.MetricLogout, Name: "memberauth_logout_total", Help: "Logout operations."},
	{ID: memberauth.MetricCodeRequested, Name: "memberauth_code_requested_total", Help: "Verification codes issued."},
	{ID: memberauth.MetricCodeResendBlocked, Name: "memberauth_code_resend_blocked_total", Help: "Code requests rejected by the resend cooldown."},
	{ID: memberauth.MetricCodeVerified, Name: "memberauth_code_verified_total", Help: "Successful code verifications."},
	{ID: memberauth.MetricCodeMismatch, Name: "memberauth_code_mismatch_total", Help: "Wrong-code submissions."},
	{ID: memberauth.MetricCodeBlocked, Name: "memberauth_code_blocked_total", Help: "Verifications rejected by the attempt cap."},
	{ID: memberauth.MetricSignUpSuccess, Name: "memberauth_signup_success_total", Help: "Accounts created."},
	{ID: memberauth.MetricSignUpRejected, Name: "memberauth_signup_rejected_total", Help: "Sign-ups rejected (duplicate or unverified email)."},
	{ID: memberauth.MetricMailSendFailure, Name: "memberauth_mail_send_failure_total", Help: "Failed or dropped email deliveries."},
}
