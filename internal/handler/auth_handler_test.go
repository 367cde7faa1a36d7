package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/photofolio/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	authorizeURLFn   func() (string, string, error)
	handleCallbackFn func(ctx context.Context, code string) (*model.User, string, error)
}

func (m *mockAuthService) AuthorizeURL() (string, string, error) {
	if m.authorizeURLFn != nil {
		return m.authorizeURLFn()
	}
	return "", "", nil
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.User, string, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, "", nil
}

// --- GET /google/authorize テスト ---

func TestAuthHandler_Authorize_RedirectsWithStateCookie(t *testing.T) {
	svc := &mockAuthService{
		authorizeURLFn: func() (string, string, error) {
			return "https://accounts.google.com/o/oauth2/v2/auth?state=state-abc", "state-abc", nil
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/authorize", nil)
	w := httptest.NewRecorder()

	h.Authorize(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "https://accounts.google.com/") {
		t.Errorf("Location = %q, want Google authorize URL", location)
	}

	// stateがCookieに保存されること
	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	if stateCookie == nil {
		t.Fatal("expected oauth_state cookie to be set")
	}
	if stateCookie.Value != "state-abc" {
		t.Errorf("state cookie = %q, want %q", stateCookie.Value, "state-abc")
	}
	if !stateCookie.HttpOnly {
		t.Error("state cookie should be HttpOnly")
	}
}

// --- GET /google/redirect テスト ---

func TestAuthHandler_Redirect_Success_ReturnsUserAndToken(t *testing.T) {
	now := time.Now()
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.User, string, error) {
			if code != "auth-code-xyz" {
				t.Errorf("code = %q, want %q", code, "auth-code-xyz")
			}
			return &model.User{
				ID:        "user-123",
				Email:     "taro@example.com",
				CreatedAt: now,
				UpdatedAt: now,
			}, "jwt-token-value", nil
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code-xyz&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var result map[string]any
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["token"] != "jwt-token-value" {
		t.Errorf("token = %v, want %q", result["token"], "jwt-token-value")
	}
	user := result["user"].(map[string]any)
	if user["email"] != "taro@example.com" {
		t.Errorf("user email = %v, want %q", user["email"], "taro@example.com")
	}
}

func TestAuthHandler_Redirect_WithClientURL_RedirectsWithToken(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.User, string, error) {
			return &model.User{ID: "user-123", Email: "taro@example.com"}, "jwt token+value", nil
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{RedirectClientURL: "https://app.example.com/login"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "https://app.example.com/login?token=") {
		t.Errorf("Location = %q, want prefix %q", location, "https://app.example.com/login?token=")
	}
	// トークンはURLエンコードされること
	if !strings.Contains(location, "jwt+token%2Bvalue") {
		t.Errorf("Location = %q, expected URL-encoded token", location)
	}
}

func TestAuthHandler_Redirect_StateMismatch_ReturnsBadRequest(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.User, string, error) {
			t.Fatal("HandleCallback must not be called on state mismatch")
			return nil, "", nil
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code&state=forged-state", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Redirect_MissingStateCookie_ReturnsBadRequest(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code&state=state-abc", nil)
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestAuthHandler_Redirect_MissingCode_ReturnsBadRequest(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

// 許可リスト外ユーザーのログインは401で拒否される。
// 成功時のみトークンが発行されるため、未許可は認証失敗として扱う。
func TestAuthHandler_Redirect_NotAllowedUser_ReturnsUnauthorized(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.User, string, error) {
			return nil, "", model.NewUserNotAllowedError("stranger@example.com")
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodeUserNotAllowed {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodeUserNotAllowed)
	}
}

func TestAuthHandler_Redirect_ExchangeFailure_ReturnsBadGateway(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.User, string, error) {
			cause := errors.New("connection refused")
			return nil, "", fmt.Errorf("%w: %w", model.NewProviderExchangeError("code exchange failed"), cause)
		},
	}

	h := NewAuthHandler(svc, AuthHandlerConfig{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/google/redirect?code=auth-code&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-abc"})
	w := httptest.NewRecorder()

	h.Redirect(w, req)

	if w.Result().StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadGateway)
	}
}

// --- loginFailureReason テスト ---

func TestLoginFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "許可リスト外", err: model.NewUserNotAllowedError("x@example.com"), want: "not_allowed"},
		{name: "コード交換失敗", err: model.NewProviderExchangeError("exchange failed"), want: "exchange_failed"},
		{name: "プロフィール取得失敗", err: model.NewProviderProfileError("profile failed"), want: "profile_failed"},
		{name: "その他のエラー", err: errors.New("database is down"), want: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loginFailureReason(tt.err); got != tt.want {
				t.Errorf("loginFailureReason = %q, want %q", got, tt.want)
			}
		})
	}
}
