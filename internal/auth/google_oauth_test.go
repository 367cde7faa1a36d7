package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// TestGoogleOAuthProvider_AuthorizeURL は認可URLに必須パラメータが含まれることを検証する。
func TestGoogleOAuthProvider_AuthorizeURL(t *testing.T) {
	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:    "client-id",
		RedirectURL: "https://api.example.com/google/redirect",
	})

	raw := p.AuthorizeURL("state-123")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse authorize url: %v", err)
	}
	q := u.Query()

	if got := q.Get("client_id"); got != "client-id" {
		t.Errorf("client_id = %q, want %q", got, "client-id")
	}
	if got := q.Get("redirect_uri"); got != "https://api.example.com/google/redirect" {
		t.Errorf("redirect_uri = %q", got)
	}
	if got := q.Get("response_type"); got != "code" {
		t.Errorf("response_type = %q, want code", got)
	}
	if got := q.Get("state"); got != "state-123" {
		t.Errorf("state = %q, want state-123", got)
	}
	scope := q.Get("scope")
	if !strings.Contains(scope, "userinfo.email") || !strings.Contains(scope, "userinfo.profile") {
		t.Errorf("scope = %q, want email and profile scopes", scope)
	}
}

// TestGoogleOAuthProvider_ExchangeCode はコード交換の成功パスを検証する。
func TestGoogleOAuthProvider_ExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("code"); got != "auth-code" {
			t.Errorf("code = %q, want auth-code", got)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Errorf("grant_type = %q, want authorization_code", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"access-token-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer server.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://api.example.com/google/redirect",
		TokenURL:     server.URL,
	})

	token, err := p.ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("ExchangeCode failed: %v", err)
	}
	if token != "access-token-1" {
		t.Errorf("token = %q, want access-token-1", token)
	}
}

// TestGoogleOAuthProvider_ExchangeCode_ProviderError はプロバイダーの
// エラーレスポンスがエラーとして返ることを検証する。
func TestGoogleOAuthProvider_ExchangeCode_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{TokenURL: server.URL})

	if _, err := p.ExchangeCode(context.Background(), "expired-code"); err == nil {
		t.Error("ExchangeCode succeeded on provider error response")
	}
}

// TestGoogleOAuthProvider_FetchProfile はプロフィール取得の成功パスを検証する。
func TestGoogleOAuthProvider_FetchProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer access-token-1" {
			t.Errorf("Authorization = %q, want Bearer access-token-1", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-1","email":"hitoshi@example.com","verified_email":true,"picture":"https://example.com/p.jpg"}`))
	}))
	defer server.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{UserInfoURL: server.URL})

	profile, err := p.FetchProfile(context.Background(), "access-token-1")
	if err != nil {
		t.Fatalf("FetchProfile failed: %v", err)
	}
	if profile.Email != "hitoshi@example.com" {
		t.Errorf("email = %q, want hitoshi@example.com", profile.Email)
	}

	seed := profile.UserSeed()
	if seed.Email != "hitoshi@example.com" {
		t.Errorf("seed.Email = %q", seed.Email)
	}
	if seed.Picture == nil || *seed.Picture != "https://example.com/p.jpg" {
		t.Errorf("seed.Picture = %v", seed.Picture)
	}
}

// TestGoogleOAuthProvider_FetchProfile_EmptyEmail はメールアドレスを含まない
// プロフィールが拒否されることを検証する。
func TestGoogleOAuthProvider_FetchProfile_EmptyEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"g-1"}`))
	}))
	defer server.Close()

	p := NewGoogleOAuthProvider(GoogleOAuthConfig{UserInfoURL: server.URL})

	if _, err := p.FetchProfile(context.Background(), "token"); err == nil {
		t.Error("FetchProfile accepted a profile without email")
	}
}
