package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/vendorhub-backend/api/middleware"
	"github.com/angelmondragon/vendorhub-backend/internal/auth"
	"github.com/angelmondragon/vendorhub-backend/internal/users"
	"github.com/angelmondragon/vendorhub-backend/pkg/db/models"
	"github.com/angelmondragon/vendorhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/vendorhub-backend/pkg/errors"
)

type stubAuthService struct {
	loginResp   *auth.LoginResponse
	err         error
	lastLogin   auth.LoginRequest
	adminCalled bool
	issuedFor   *models.User
	lastRefresh auth.RefreshInput
	loggedOut   string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.err
}

func (s *stubAuthService) AdminLogin(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.adminCalled = true
	s.lastLogin = req
	return s.loginResp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.LoginResponse, error) {
	s.lastRefresh = input
	return s.loginResp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func (s *stubAuthService) IssueTokens(ctx context.Context, user *models.User) (*auth.LoginResponse, error) {
	s.issuedFor = user
	return s.loginResp, s.err
}

type stubRegisterService struct {
	user *models.User
	err  error
	last auth.RegisterRequest
}

func (s *stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*models.User, error) {
	s.last = req
	return s.user, s.err
}

type stubAccountTypeService struct {
	resp *auth.LoginResponse
	err  error
	last auth.SelectAccountTypeInput
}

func (s *stubAccountTypeService) Select(ctx context.Context, input auth.SelectAccountTypeInput) (*auth.LoginResponse, error) {
	s.last = input
	return s.resp, s.err
}

type stubAdminRegisterService struct {
	user *users.UserDTO
	err  error
}

func (s stubAdminRegisterService) Register(ctx context.Context, req auth.AdminRegisterRequest) (*users.UserDTO, error) {
	return s.user, s.err
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, rec.Body.String())
	}
	return envelope.Error.Code
}

func TestAuthLoginSetsTokenHeader(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}}
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"vendor@example.com","password":"Secret#123"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(accessTokenHeader); got != "access" {
		t.Fatalf("expected token header, got %q", got)
	}
	if svc.adminCalled {
		t.Fatalf("regular login must not use the admin flow")
	}
	if data := decodeData(t, rec); data["refreshToken"] != "refresh" {
		t.Fatalf("unexpected payload %v", data)
	}
}

func TestAuthLoginRejectsInvalidBody(t *testing.T) {
	svc := &stubAuthService{}
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.lastLogin.Email != "" {
		t.Fatalf("service should not be called on invalid input")
	}
}

func TestAdminAuthLoginUsesAdminFlow(t *testing.T) {
	svc := &stubAuthService{loginResp: &auth.LoginResponse{AccessToken: "admin-access"}}
	rec := httptest.NewRecorder()
	AdminAuthLogin(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/auth/login", `{"email":"admin@example.com","password":"Secret#123"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.adminCalled {
		t.Fatalf("expected admin login to be used")
	}
}

func TestAuthLoginPropagatesUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec := httptest.NewRecorder()
	AuthLogin(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"vendor@example.com","password":"wrong"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAuthRegisterIssuesTokens(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "vendor@example.com", FirstName: "Asha", LastName: "Rao", IsActive: true}
	reg := &stubRegisterService{user: user}
	svc := &stubAuthService{loginResp: &auth.LoginResponse{AccessToken: "access", RefreshToken: "refresh", User: users.FromModel(user)}}

	body := `{"firstName":"Asha","lastName":"Rao","email":"vendor@example.com","password":"Secret#123","accountType":"VENDOR"}`
	rec := httptest.NewRecorder()
	AuthRegister(reg, svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if reg.last.AccountType != "VENDOR" {
		t.Fatalf("expected account type forwarded, got %q", reg.last.AccountType)
	}
	if svc.issuedFor != user {
		t.Fatalf("expected tokens issued for the registered user")
	}
	if rec.Header().Get(accessTokenHeader) != "access" {
		t.Fatalf("expected access token header")
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	reg := &stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	svc := &stubAuthService{}

	body := `{"firstName":"Asha","lastName":"Rao","email":"vendor@example.com","password":"Secret#123","accountType":"VENDOR"}`
	rec := httptest.NewRecorder()
	AuthRegister(reg, svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/register", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.issuedFor != nil {
		t.Fatalf("tokens must not be issued when registration fails")
	}
}

func TestAuthSelectAccountType(t *testing.T) {
	userID := uuid.New()
	svc := &stubAccountTypeService{resp: &auth.LoginResponse{AccessToken: "vendor-access"}}

	req := jsonRequest(http.MethodPost, "/api/v1/auth/account-type", `{"accountType":"VENDOR"}`)
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithAccessID(ctx, "jti-1")
	rec := httptest.NewRecorder()
	AuthSelectAccountType(svc, nil).ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.last.UserID != userID || svc.last.AccessTokenID != "jti-1" || svc.last.AccountType != "VENDOR" {
		t.Fatalf("unexpected input %+v", svc.last)
	}
	if rec.Header().Get(accessTokenHeader) != "vendor-access" {
		t.Fatalf("expected refreshed access token header")
	}
}

func TestAuthSelectAccountTypeRequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthSelectAccountType(&stubAccountTypeService{}, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/v1/auth/account-type", `{"accountType":"BUYER"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAdminAuthRegister(t *testing.T) {
	admin := enums.AccountTypeAdmin
	svc := stubAdminRegisterService{user: &users.UserDTO{ID: uuid.New(), Email: "admin@example.com", AccountType: &admin}}

	body := `{"firstName":"Admin","lastName":"User","email":"admin@example.com","password":"Secret#123"}`
	rec := httptest.NewRecorder()
	AdminAuthRegister(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/admin/v1/auth/register", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	data := decodeData(t, rec)
	user, _ := data["user"].(map[string]any)
	if user["accountType"] != "ADMIN" {
		t.Fatalf("unexpected user payload %v", data)
	}
}
