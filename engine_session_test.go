package memberauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sjpark-dev/memberauth/token"
)

func TestLoginIssuesTokenPair(t *testing.T) {
	mr, client := newTestRedis(t)
	members := newMemoryMembers()
	userID := members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	result, err := e.Login(context.Background(), "alice@test.io", "pw-123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.UserID != userID || result.Email != "alice@test.io" || result.Nickname != "alice" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}

	stored, err := mr.Get(refreshKey(userID))
	if err != nil {
		t.Fatalf("no refresh record: %v", err)
	}
	if stored != result.RefreshToken {
		t.Fatal("stored refresh token differs from returned one")
	}

	cfg := testConfig()
	if ttl := mr.TTL(refreshKey(userID)); ttl != cfg.Token.RefreshTTL.Truncate(time.Minute) {
		t.Fatalf("refresh record TTL = %v, want %v", ttl, cfg.Token.RefreshTTL.Truncate(time.Minute))
	}

	mgr := newTestTokenManager(t)
	claims, err := mgr.Parse(result.AccessToken)
	if err != nil {
		t.Fatalf("access token does not parse: %v", err)
	}
	gotID, err := claims.UserID()
	if err != nil || gotID != userID {
		t.Fatalf("claims subject = %d, %v; want %d", gotID, err, userID)
	}
	if claims.Email != "alice@test.io" || claims.Role != "USER" {
		t.Fatalf("claims = %+v", claims)
	}

	members.mu.Lock()
	_, touched := members.lastLogin[userID]
	members.mu.Unlock()
	if !touched {
		t.Fatal("last login was not updated")
	}
}

func TestLoginUnknownMember(t *testing.T) {
	_, client := newTestRedis(t)
	e := newTestEngine(t, client, newMemoryMembers(), nil)

	_, err := e.Login(context.Background(), "ghost@test.io", "pw-123456")
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if ErrorCode(err) != "M004" {
		t.Fatalf("ErrorCode = %q, want M004", ErrorCode(err))
	}
}

func TestLoginWrongPassword(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	_, err := e.Login(context.Background(), "alice@test.io", "wrong-password")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	// Same code as unknown member: login must not reveal which check failed.
	if ErrorCode(err) != "M004" {
		t.Fatalf("ErrorCode = %q, want M004", ErrorCode(err))
	}
	if got := e.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("login_failure = %d, want 1", got)
	}
}

func TestLoginSucceedsWhenLastLoginUpdateFails(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	members.touchErr = errors.New("db timeout")
	e := newTestEngine(t, client, members, nil)

	if _, err := e.Login(context.Background(), "alice@test.io", "pw-123456"); err != nil {
		t.Fatalf("login should survive a failed last-login update, got %v", err)
	}
}

func TestRefreshRotatesAndRevokesOldToken(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	ctx := context.Background()
	login, err := e.Login(ctx, "alice@test.io", "pw-123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	pair, err := e.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if pair.RefreshToken == login.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The superseded token is cryptographically fine but no longer stored.
	if _, err := e.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for replayed token, got %v", err)
	}

	// The fresh token keeps working.
	if _, err := e.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second rotation failed: %v", err)
	}
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	userID := members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	ctx := context.Background()
	login, err := e.Login(ctx, "alice@test.io", "pw-123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	members.setRole(userID, "ADMIN")

	pair, err := e.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	claims, err := newTestTokenManager(t).Parse(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated access token: %v", err)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("rotated role = %q, want ADMIN", claims.Role)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	_, client := newTestRedis(t)
	e := newTestEngine(t, client, newMemoryMembers(), nil)

	_, err := e.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if ErrorCode(err) != "A001" {
		t.Fatalf("ErrorCode = %q, want A001", ErrorCode(err))
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	_, client := newTestRedis(t)
	e := newTestEngine(t, client, newMemoryMembers(), nil)

	// Same secret and issuer, but a lifetime that has already lapsed by the
	// time Refresh parses it.
	cfg := testConfig()
	mgr, err := token.NewManager(token.Config{
		Secret:     cfg.Token.Secret,
		Issuer:     cfg.Token.Issuer,
		AccessTTL:  time.Nanosecond,
		RefreshTTL: time.Nanosecond,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	expired, err := mgr.CreateRefresh(42)
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := e.Refresh(context.Background(), expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestRefreshAfterLogout(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	userID := members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	ctx := context.Background()
	login, err := e.Login(ctx, "alice@test.io", "pw-123456")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := e.Logout(ctx, userID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = e.Refresh(ctx, login.RefreshToken)
	if !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Fatalf("expected ErrRefreshTokenNotFound, got %v", err)
	}
	if ErrorCode(err) != "A003" {
		t.Fatalf("ErrorCode = %q, want A003", ErrorCode(err))
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	_, client := newTestRedis(t)
	e := newTestEngine(t, client, newMemoryMembers(), nil)

	ctx := context.Background()
	if err := e.Logout(ctx, 7); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if err := e.Logout(ctx, 7); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestLoginRevokesEarlierSession(t *testing.T) {
	_, client := newTestRedis(t)
	members := newMemoryMembers()
	members.add(t, "alice@test.io", "pw-123456", "alice", "USER")
	e := newTestEngine(t, client, members, nil)

	ctx := context.Background()
	first, err := e.Login(ctx, "alice@test.io", "pw-123456")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	if _, err := e.Login(ctx, "alice@test.io", "pw-123456"); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}

	if _, err := e.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for first session's token, got %v", err)
	}
}

func newTestTokenManager(t *testing.T) *token.Manager {
	t.Helper()

	cfg := testConfig()
	mgr, err := token.NewManager(token.Config{
		Secret:     cfg.Token.Secret,
		Issuer:     cfg.Token.Issuer,
		AccessTTL:  cfg.Token.AccessTTL,
		RefreshTTL: cfg.Token.RefreshTTL,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return mgr
}
