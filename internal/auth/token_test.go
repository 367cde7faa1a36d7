package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/photofolio/internal/model"
)

// TestTokenCodec_EncodeAndVerify はトークンの発行と検証の往復を検証する。
func TestTokenCodec_EncodeAndVerify(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	user := &model.User{
		ID:    "user-1",
		Email: "hitoshi@example.com",
	}

	token, err := codec.Encode(user)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if token == "" {
		t.Fatal("Encode returned empty token")
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Email != "hitoshi@example.com" {
		t.Errorf("email = %q, want %q", claims.Email, "hitoshi@example.com")
	}
	if claims.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", claims.UserID, "user-1")
	}
}

// TestTokenCodec_ExpiryIsTTLSeconds は有効期限が発行時刻+TTLになることを検証する。
func TestTokenCodec_ExpiryIsTTLSeconds(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("test-secret", 3600*time.Second)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(&model.User{ID: "u", Email: "e@example.com"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	wantExp := issued.Add(3600 * time.Second).Unix()
	if claims.ExpiresAt.Unix() != wantExp {
		t.Errorf("exp = %d, want %d", claims.ExpiresAt.Unix(), wantExp)
	}
}

// TestTokenCodec_ExpiredTokenRejected は期限切れトークンが拒否されることを検証する。
func TestTokenCodec_ExpiredTokenRejected(t *testing.T) {
	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("test-secret", time.Hour)
	codec.now = func() time.Time { return issued }

	token, err := codec.Encode(&model.User{ID: "u", Email: "e@example.com"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// 有効期限ちょうどを1秒過ぎた時点で検証する（猶予はない）
	codec.now = func() time.Time { return issued.Add(time.Hour + time.Second) }

	if _, err := codec.Verify(token); err == nil {
		t.Error("Verify accepted an expired token")
	}
}

// TestTokenCodec_WrongSecretRejected は別の鍵で署名されたトークンが拒否されることを検証する。
func TestTokenCodec_WrongSecretRejected(t *testing.T) {
	issuer := NewTokenCodec("secret-a", time.Hour)
	verifier := NewTokenCodec("secret-b", time.Hour)

	token, err := issuer.Encode(&model.User{ID: "u", Email: "e@example.com"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify accepted a token signed with a different secret")
	}
}

// TestTokenCodec_MalformedTokenRejected は形式不正なトークンが拒否されることを検証する。
func TestTokenCodec_MalformedTokenRejected(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := codec.Verify(token); err == nil {
			t.Errorf("Verify accepted malformed token %q", token)
		}
	}
}

// TestTokenCodec_TamperedTokenRejected は改ざんされたトークンが拒否されることを検証する。
func TestTokenCodec_TamperedTokenRejected(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.Encode(&model.User{ID: "u", Email: "e@example.com"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// ペイロード部分を差し替える
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %q", token)
	}
	tampered := parts[0] + ".eyJlbWFpbCI6ImF0dGFja2VyQGV4YW1wbGUuY29tIn0." + parts[2]

	if _, err := codec.Verify(tampered); err == nil {
		t.Error("Verify accepted a tampered token")
	}
}
