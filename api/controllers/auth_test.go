package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SaraKachchaf/flowermarketneo4j/internal/auth"
	pkgerrors "github.com/SaraKachchaf/flowermarketneo4j/pkg/errors"
)

type stubAuthService struct {
	registerResp *auth.RegisterResponse
	registerErr  error
	loginResp    *auth.LoginResponse
	loginErr     error
	lastLogin    auth.LoginRequest
}

func (s *stubAuthService) Register(_ context.Context, _ auth.RegisterRequest) (*auth.RegisterResponse, error) {
	return s.registerResp, s.registerErr
}

func (s *stubAuthService) RegisterPrestataire(_ context.Context, _ auth.RegisterPrestataireRequest) (*auth.MessageResponse, error) {
	return &auth.MessageResponse{Message: "ok"}, nil
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = req
	return s.loginResp, s.loginErr
}

func (s *stubAuthService) SendVerification(_ context.Context, _ auth.SendVerificationRequest) (*auth.SendVerificationResponse, error) {
	return &auth.SendVerificationResponse{}, nil
}

func (s *stubAuthService) VerifyEmail(_ context.Context, _ auth.VerifyEmailRequest) (*auth.VerifyEmailResponse, error) {
	return &auth.VerifyEmailResponse{}, nil
}

func (s *stubAuthService) CurrentUser(_ context.Context, _ string) (*auth.MeResponse, error) {
	return &auth.MeResponse{}, nil
}

func TestAuthRegisterReturnsCreated(t *testing.T) {
	t.Parallel()
	svc := &stubAuthService{registerResp: &auth.RegisterResponse{
		Message:                   "Compte créé avec succès. Veuillez vérifier votre email.",
		RequiresEmailVerification: true,
		Email:                     "amal@example.com",
	}}

	body := `{"fullName":"Amal B","email":"amal@example.com","password":"s3cr3t-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data auth.RegisterResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !envelope.Data.RequiresEmailVerification {
		t.Fatalf("expected verification flag, got %+v", envelope.Data)
	}
}

func TestAuthRegisterRejectsInvalidBody(t *testing.T) {
	t.Parallel()
	svc := &stubAuthService{}

	body := `{"fullName":"","email":"not-an-email","password":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AuthRegister(svc, nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthLoginPassesCredentialsThrough(t *testing.T) {
	t.Parallel()
	svc := &stubAuthService{loginResp: &auth.LoginResponse{Token: "jwt", Role: "Client"}}

	body := `{"email":"amal@example.com","password":"s3cr3t-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastLogin.Email != "amal@example.com" {
		t.Fatalf("expected request to reach the service, got %+v", svc.lastLogin)
	}
}

func TestAuthLoginSurfacesPendingApproval(t *testing.T) {
	t.Parallel()
	svc := &stubAuthService{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "PENDING_APPROVAL").
		WithDetails(map[string]any{"isApproved": false})}

	body := `{"email":"vendor@example.com","password":"s3cr3t-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/Auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	AuthLogin(svc, nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "PENDING_APPROVAL") {
		t.Fatalf("expected pending-approval marker, got %s", rec.Body.String())
	}
}
