package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/angelmondragon/vendorhub-backend/pkg/auth"
	"github.com/angelmondragon/vendorhub-backend/pkg/auth/session"
	"github.com/angelmondragon/vendorhub-backend/pkg/config"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
	"github.com/angelmondragon/vendorhub-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "secret",
	Issuer:                 "vendorhub",
	ExpirationMinutes:      30,
	RefreshTokenTTLMinutes: 120,
}

type stubUserRepo struct {
	user      *models.User
	lastLogin *time.Time
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin = &at
	return nil
}

type stubSessionManager struct {
	refreshToken string
	sessions     map[string]uuid.UUID
	revoked      []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{refreshToken: "refresh-token", sessions: map[string]uuid.UUID{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	s.sessions[accessID] = userID
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	owner, ok := s.sessions[oldAccessID]
	if !ok || owner != userID || provided != s.refreshToken {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	next := session.NewAccessID()
	s.sessions[next] = userID
	return next, s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.sessions, accessID)
	return nil
}

func testUser(t *testing.T, password string, accountType *enums.AccountType) *models.User {
	t.Helper()
	hash := mustHashPassword(t, password)
	return &models.User{
		ID:           uuid.New(),
		Email:        "vendor@example.com",
		PasswordHash: &hash,
		FirstName:    "Meera",
		LastName:     "Shah",
		AccountType:  accountType,
		IsActive:     true,
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo, *stubSessionManager) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions, JWTConfig: testJWTConfig})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions
}

func TestServiceLoginVendorRoleClaim(t *testing.T) {
	vendor := enums.AccountTypeVendor
	user := testUser(t, "vendor-secret", &vendor)
	svc, repo, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: " Vendor@Example.com ", Password: "vendor-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.AccountTypeVendor || claims.UserID != user.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.RefreshToken == "" || resp.RequiresAccountType {
		t.Fatalf("unexpected response %+v", resp)
	}
	if repo.lastLogin == nil {
		t.Fatalf("expected last login recorded")
	}
}

func TestServiceLoginWithoutAccountType(t *testing.T) {
	user := testUser(t, "pending-secret", nil)
	svc, _, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "pending-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !resp.RequiresAccountType {
		t.Fatalf("expected account type selection to be required")
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if !claims.NeedsAccountType() {
		t.Fatalf("expected empty role claim, got %q", claims.Role)
	}
}

func TestServiceLoginRejectsBadCredentials(t *testing.T) {
	buyer := enums.AccountTypeBuyer
	user := testUser(t, "right-password", &buyer)
	svc, _, _ := buildTestService(t, user)

	cases := []LoginRequest{
		{Email: user.Email, Password: "wrong-password"},
		{Email: "nobody@example.com", Password: "right-password"},
		{Email: "  ", Password: "right-password"},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
			t.Fatalf("expected unauthorized for %+v, got %v", req, err)
		}
	}

	user.IsActive = false
	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "right-password"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected blocked user to be unauthorized, got %v", err)
	}
}

func TestServiceAdminLoginRequiresAdmin(t *testing.T) {
	vendor := enums.AccountTypeVendor
	user := testUser(t, "secret-pass", &vendor)
	svc, _, _ := buildTestService(t, user)

	if _, err := svc.AdminLogin(context.Background(), LoginRequest{Email: user.Email, Password: "secret-pass"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected vendor to be refused admin login, got %v", err)
	}

	admin := enums.AccountTypeAdmin
	user.AccountType = &admin
	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: user.Email, Password: "secret-pass"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, _ := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if claims == nil || claims.Role != enums.AccountTypeAdmin {
		t.Fatalf("expected admin claim")
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "secret-pass"}); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected admin to use the admin login, got %v", err)
	}
}

func TestServiceRefreshPicksUpCurrentAccountType(t *testing.T) {
	user := testUser(t, "refresh-secret", nil)
	svc, _, sessions := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "refresh-secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, _ := pkgAuth.ParseAccessToken(testJWTConfig, login.AccessToken)

	vendor := enums.AccountTypeVendor
	user.AccountType = &vendor

	refreshed, err := svc.Refresh(context.Background(), RefreshInput{UserID: user.ID, AccessID: claims.ID, RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	next, err := pkgAuth.ParseAccessToken(testJWTConfig, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if next.Role != enums.AccountTypeVendor || next.ID == claims.ID {
		t.Fatalf("unexpected refreshed claims %+v", next)
	}
	if _, ok := sessions.sessions[claims.ID]; ok {
		t.Fatalf("old session should be rotated out")
	}

	_, err = svc.Refresh(context.Background(), RefreshInput{UserID: user.ID, AccessID: claims.ID, RefreshToken: login.RefreshToken})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected reused session to be refused, got %v", err)
	}
}

func TestServiceLogoutRevokes(t *testing.T) {
	svc, _, sessions := buildTestService(t, nil)
	if err := svc.Logout(context.Background(), "access-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-1" {
		t.Fatalf("expected revoke of access-1, got %v", sessions.revoked)
	}
	if err := svc.Logout(context.Background(), ""); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for empty session id, got %v", err)
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}
