package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// AuthorizeURL はプロバイダーの認可URLと使い捨てのstate値を返す。
	AuthorizeURL() (string, string, error)
	// HandleCallback は認可コードからユーザーとセッショントークンを解決する。
	HandleCallback(ctx context.Context, code string) (*model.User, string, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	// RedirectClientURL が設定されている場合、ログイン完了時に
	// {url}?token={jwt} へリダイレクトする。未設定ならJSONを返す。
	RedirectClientURL string
	CookieSecure      bool
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service   AuthServiceInterface
	config    AuthHandlerConfig
	collector metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。collectorはnil可。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:   service,
		config:    config,
		collector: collector,
	}
}

// Authorize はGoogle OAuthフローを開始する。
// GET /google/authorize
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	authorizeURL, state, err := h.service.AuthorizeURL()
	if err != nil {
		slog.Error("failed to build authorize url", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, authorizeURL, http.StatusTemporaryRedirect)
}

// Redirect はOAuthコールバックを処理する。
// GET /google/redirect?code=xxx&state=yyy
func (h *AuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch",
			slog.String("query_state", state),
		)
		h.recordLoginFailure("state_mismatch")
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		h.recordLoginFailure("missing_code")
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	// 3. 認証処理
	user, token, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		h.recordLoginFailure(loginFailureReason(err))
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordLoginSuccess()
	}

	// 4. クライアントへの引き渡し
	if h.config.RedirectClientURL != "" {
		redirectURL := fmt.Sprintf("%s?token=%s", h.config.RedirectClientURL, url.QueryEscape(token))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":  toUserResponse(user),
		"token": token,
	})
}

func (h *AuthHandler) recordLoginFailure(reason string) {
	if h.collector != nil {
		h.collector.RecordLoginFailure(reason)
	}
}

// loginFailureReason はログイン失敗エラーをメトリクス用の理由ラベルに変換する。
func loginFailureReason(err error) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return "internal"
	}
	switch apiErr.Code {
	case model.ErrCodeUserNotAllowed:
		return "not_allowed"
	case model.ErrCodeProviderExchange:
		return "exchange_failed"
	case model.ErrCodeProviderProfile:
		return "profile_failed"
	default:
		return "internal"
	}
}
