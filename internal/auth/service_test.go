package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	pkgauth "github.com/SaraKachchaf/flowermarketneo4j/pkg/auth"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/config"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/enums"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/graph/models"
	"github.com/SaraKachchaf/flowermarketneo4j/pkg/security"
)

type fakeUserStore struct {
	users   map[string]*models.User
	updates int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	f.updates++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, nil
}

type fakeRoleStore struct {
	assigned map[string][]string
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{assigned: map[string][]string{}}
}

func (f *fakeRoleStore) Assign(ctx context.Context, userID string, role enums.Role) error {
	f.assigned[userID] = append(f.assigned[userID], role.String())
	return nil
}

func (f *fakeRoleStore) RolesOf(ctx context.Context, userID string) ([]string, error) {
	return f.assigned[userID], nil
}

type fakeRunner struct {
	queries []string
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]graph.Row, error) {
	f.queries = append(f.queries, cypher)
	return nil, nil
}

type fakeMailer struct {
	codes []string
}

func (f *fakeMailer) SendVerificationCode(ctx context.Context, email, fullName, code string) error {
	f.codes = append(f.codes, code)
	return nil
}

type testHarness struct {
	svc    Service
	users  *fakeUserStore
	roles  *fakeRoleStore
	runner *fakeRunner
	mail   *fakeMailer
	now    time.Time
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		users:  newFakeUserStore(),
		roles:  newFakeRoleStore(),
		runner: &fakeRunner{},
		mail:   &fakeMailer{},
		now:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	svc, err := NewService(ServiceParams{
		UserStore:      h.users,
		RoleStore:      h.roles,
		Graph:          h.runner,
		Mailer:         h.mail,
		JWTConfig:      config.JWTConfig{Secret: "test-secret", Issuer: "fleurs-test", ExpirationMinutes: 120},
		PasswordConfig: config.PasswordConfig{},
		Now:            func() time.Time { return h.now },
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	h.svc = svc
	return h
}

func (h *testHarness) seedUser(t *testing.T, role enums.Role, password string, mutate func(*models.User)) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user := &models.User{
		ID:             "user-1",
		UserName:       "sara@example.com",
		Email:          "sara@example.com",
		PasswordHash:   hash,
		FullName:       "Sara K",
		IsApproved:     true,
		EmailConfirmed: true,
		CreatedAt:      h.now,
	}
	if mutate != nil {
		mutate(user)
	}
	h.users.users[user.ID] = user
	h.roles.assigned[user.ID] = []string{role.String()}
	return user
}

func TestRegisterCreatesClient(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	resp, err := h.svc.Register(context.Background(), RegisterRequest{
		FullName: "Sara K",
		Email:    "sara@example.com",
		Password: "motdepasse123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.RequiresEmailVerification {
		t.Fatal("expected email verification to be required")
	}

	user, _ := h.users.FindByEmail(context.Background(), "sara@example.com")
	if user == nil {
		t.Fatal("expected user to be created")
	}
	if !user.IsApproved {
		t.Fatal("clients must be approved immediately")
	}
	if user.EmailConfirmed {
		t.Fatal("email must start unconfirmed")
	}
	if len(user.EmailVerificationCode) != 6 {
		t.Fatalf("expected 6-digit code, got %q", user.EmailVerificationCode)
	}
	if got := h.roles.assigned[user.ID]; len(got) != 1 || got[0] != "Client" {
		t.Fatalf("expected Client role, got %v", got)
	}
	if len(h.mail.codes) != 1 {
		t.Fatalf("expected one verification mail, got %d", len(h.mail.codes))
	}
	if len(h.runner.queries) != 1 || !strings.Contains(h.runner.queries[0], ":Notification") {
		t.Fatalf("expected admin notification write, got %v", h.runner.queries)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RoleClient, "motdepasse123", nil)

	_, err := h.svc.Register(context.Background(), RegisterRequest{
		FullName: "Autre",
		Email:    "sara@example.com",
		Password: "motdepasse123",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterPrestataireStartsUnapproved(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.RegisterPrestataire(context.Background(), RegisterPrestataireRequest{
		FullName: "Fleuriste",
		Email:    "shop@example.com",
		Password: "motdepasse123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, _ := h.users.FindByEmail(context.Background(), "shop@example.com")
	if user == nil || user.IsApproved {
		t.Fatalf("expected unapproved vendor, got %+v", user)
	}
	if got := h.roles.assigned[user.ID]; len(got) != 1 || got[0] != "Prestataire" {
		t.Fatalf("expected Prestataire role, got %v", got)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RoleClient, "motdepasse123", nil)

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "sara@example.com", Password: "mauvais-mdp"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnconfirmedClientGetsNewCode(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RoleClient, "motdepasse123", func(u *models.User) {
		u.EmailConfirmed = false
	})

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "sara@example.com", Password: "motdepasse123"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(h.mail.codes) != 1 {
		t.Fatalf("expected a regenerated code mail, got %d", len(h.mail.codes))
	}
	if h.users.updates != 1 {
		t.Fatalf("expected user update persisting the new code, got %d", h.users.updates)
	}
}

func TestLoginPendingPrestataire(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RolePrestataire, "motdepasse123", func(u *models.User) {
		u.IsApproved = false
	})

	_, err := h.svc.Login(context.Background(), LoginRequest{Email: "sara@example.com", Password: "motdepasse123"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "PENDING_APPROVAL" {
		t.Fatalf("expected PENDING_APPROVAL marker, got %q", typed.Message())
	}
}

func TestLoginSuccessMintsToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	user := h.seedUser(t, enums.RoleClient, "motdepasse123", nil)

	resp, err := h.svc.Login(context.Background(), LoginRequest{Email: "sara@example.com", Password: "motdepasse123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Role != "Client" {
		t.Fatalf("unexpected role %q", resp.Role)
	}

	claims, err := pkgauth.ParseAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "fleurs-test", ExpirationMinutes: 120}, resp.Token)
	if err != nil {
		t.Fatalf("parsing minted token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected subject %q, got %q", user.ID, claims.UserID)
	}
	if claims.Role != enums.RoleClient {
		t.Fatalf("unexpected role claim %q", claims.Role)
	}
}

func TestVerifyEmailWrongCode(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RoleClient, "motdepasse123", func(u *models.User) {
		u.EmailConfirmed = false
		u.EmailVerificationCode = "123456"
		expiry := h.now.Add(10 * time.Minute)
		u.EmailVerificationCodeExpiry = &expiry
	})

	_, err := h.svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "sara@example.com", Code: "654321"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.seedUser(t, enums.RoleClient, "motdepasse123", func(u *models.User) {
		u.EmailConfirmed = false
		u.EmailVerificationCode = "123456"
		expiry := h.now.Add(-time.Minute)
		u.EmailVerificationCodeExpiry = &expiry
	})

	_, err := h.svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "sara@example.com", Code: "123456"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVerifyEmailSuccessClearsCode(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	user := h.seedUser(t, enums.RoleClient, "motdepasse123", func(u *models.User) {
		u.EmailConfirmed = false
		u.EmailVerificationCode = "123456"
		expiry := h.now.Add(10 * time.Minute)
		u.EmailVerificationCodeExpiry = &expiry
	})

	resp, err := h.svc.VerifyEmail(context.Background(), VerifyEmailRequest{Email: "sara@example.com", Code: "123456"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || !resp.User.EmailConfirmed {
		t.Fatalf("expected confirmed user, got %+v", resp)
	}
	if !user.EmailConfirmed || user.EmailVerificationCode != "" || user.EmailVerificationCodeExpiry != nil {
		t.Fatalf("expected cleared verification state, got %+v", user)
	}
}
