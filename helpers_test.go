package memberauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"golang.org/x/crypto/bcrypt"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("test-secret-key-for-hs256-signing")
	cfg.Token.Issuer = "memberauth-test"
	// MinCost keeps bcrypt cheap in tests.
	cfg.Password.Cost = bcrypt.MinCost
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestEngine(t *testing.T, client *redis.Client, members *memoryMembers, mailer Mailer) *Engine {
	t.Helper()

	b := New().
		WithConfig(testConfig()).
		WithRedis(client).
		WithMemberProvider(members).
		WithMetricsEnabled(true)
	if mailer != nil {
		b = b.WithMailer(mailer)
	}

	e, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

/* ==== in-memory member provider ==== */

type memoryMembers struct {
	mu        sync.Mutex
	nextID    int64
	byEmail   map[string]*MemberAuthInfo
	byID      map[int64]*MemberAuthInfo
	lastLogin map[int64]time.Time

	touchErr error
}

func newMemoryMembers() *memoryMembers {
	return &memoryMembers{
		nextID:    1,
		byEmail:   map[string]*MemberAuthInfo{},
		byID:      map[int64]*MemberAuthInfo{},
		lastLogin: map[int64]time.Time{},
	}
}

func (m *memoryMembers) add(t *testing.T, email, plainPassword, nickname, role string) int64 {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	info := &MemberAuthInfo{
		UserID:       id,
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
		Role:         role,
	}
	m.byEmail[email] = info
	m.byID[id] = info
	return id
}

func (m *memoryMembers) setRole(userID int64, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.byID[userID]; ok {
		info.Role = role
	}
}

func (m *memoryMembers) FindAuthInfoByEmail(_ context.Context, email string) (MemberAuthInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.byEmail[email]
	if !ok {
		return MemberAuthInfo{}, ErrMemberNotFound
	}
	return *info, nil
}

func (m *memoryMembers) FindTokenInfoByID(_ context.Context, userID int64) (MemberTokenInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.byID[userID]
	if !ok {
		return MemberTokenInfo{}, ErrMemberNotFound
	}
	return MemberTokenInfo{UserID: info.UserID, Email: info.Email, Role: info.Role}, nil
}

func (m *memoryMembers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *memoryMembers) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.byEmail {
		if info.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryMembers) CreateMember(_ context.Context, input CreateMemberInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	info := &MemberAuthInfo{
		UserID:          id,
		Email:           input.Email,
		PasswordHash:    input.PasswordHash,
		Nickname:        input.Nickname,
		ProfileImageKey: input.ProfileImageKey,
	}
	m.byEmail[input.Email] = info
	m.byID[id] = info
	return id, nil
}

func (m *memoryMembers) TouchLastLogin(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return m.touchErr
	}
	m.lastLogin[userID] = time.Now()
	return nil
}

/* ==== mailers ==== */

type sentMail struct {
	to      string
	subject string
	body    string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, string, string, string) error {
	return errors.New("smtp down")
}

/* ==== image store ==== */

type memoryImages struct {
	mu       sync.Mutex
	uploads  []string
	uploaded int
}

func (s *memoryImages) Upload(_ context.Context, image ProfileImage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploaded++
	key := "profile/" + image.Filename
	s.uploads = append(s.uploads, key)
	return key, nil
}

func (s *memoryImages) PresignedURL(_ context.Context, key string) (string, error) {
	return "https://images.test/" + key, nil
}

func (s *memoryImages) DefaultProfileKey() string {
	return "profile/default.png"
}

/* ==== miniredis helpers ==== */

func storedCode(t *testing.T, mr *miniredis.Miniredis, email string) string {
	t.Helper()
	code, err := mr.Get(verificationCodeKeyPrefix + email)
	if err != nil {
		t.Fatalf("no stored code for %s: %v", email, err)
	}
	return code
}
