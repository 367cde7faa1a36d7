package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGoogleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultGoogleTokenURL    = "https://www.googleapis.com/oauth2/v3/token"
	defaultGoogleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo?alt=json"

	// providerTimeout はプロバイダーへのアウトバウンド呼び出し1回あたりの上限時間。
	// タイムアウトもプロバイダーエラーとして呼び出し元に返し、リトライはしない。
	providerTimeout = 10 * time.Second
)

// GoogleOAuthConfig はGoogle OAuthプロバイダーの設定。
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// テスト用にオーバーライド可能なURL
	AuthURL     string
	TokenURL    string
	UserInfoURL string
}

// GoogleOAuthProvider はGoogle OAuth 2.0の認可コードフローを仲介する。
type GoogleOAuthProvider struct {
	config GoogleOAuthConfig
	client *http.Client
}

// NewGoogleOAuthProvider はGoogleOAuthProviderを生成する。
func NewGoogleOAuthProvider(config GoogleOAuthConfig) *GoogleOAuthProvider {
	if config.AuthURL == "" {
		config.AuthURL = defaultGoogleAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultGoogleTokenURL
	}
	if config.UserInfoURL == "" {
		config.UserInfoURL = defaultGoogleUserInfoURL
	}
	return &GoogleOAuthProvider{
		config: config,
		client: &http.Client{Timeout: providerTimeout},
	}
}

// AuthorizeURL はGoogle OAuthの認可URLを生成する。
// スコープにはuserinfo.email, userinfo.profileを含む。
// stateは呼び出し元がコールバック時に検証するCSRF対策トークン。
func (p *GoogleOAuthProvider) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id":     {p.config.ClientID},
		"redirect_uri":  {p.config.RedirectURL},
		"response_type": {"code"},
		"scope": {"https://www.googleapis.com/auth/userinfo.email " +
			"https://www.googleapis.com/auth/userinfo.profile"},
		"state": {state},
	}
	return p.config.AuthURL + "?" + params.Encode()
}

// googleTokenResponse はGoogleのトークンエンドポイントのレスポンス。
type googleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// GoogleProfile はGoogleのユーザー情報エンドポイントのレスポンス。
// リクエストごとに取得し、ローカルユーザーへのマッピング後は破棄する。
type GoogleProfile struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	VerifiedEmail bool    `json:"verified_email"`
	GivenName     *string `json:"given_name"`
	FamilyName    *string `json:"family_name"`
	Picture       *string `json:"picture"`
	Locale        *string `json:"locale"`
}

// UserSeed はプロバイダープロフィールからローカルユーザー作成に必要な
// 最小限のフィールドを抽出したもの。
type UserSeed struct {
	Email   string
	Picture *string
}

// UserSeed はGoogleProfileをユーザーシードへ変換する。
func (p *GoogleProfile) UserSeed() UserSeed {
	return UserSeed{
		Email:   p.Email,
		Picture: p.Picture,
	}
}

// ExchangeCode は認可コードをアクセストークンに交換する。
// 交換は1回のみ試行し、失敗はプロバイダー交換エラーとして返す。
func (p *GoogleOAuthProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {p.config.ClientID},
		"client_secret": {p.config.ClientSecret},
		"redirect_uri":  {p.config.RedirectURL},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp googleTokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response")
	}

	return tokenResp.AccessToken, nil
}

// FetchProfile はアクセストークンでGoogleのユーザー情報を取得する。
// 取得は1回のみ試行し、失敗はプロフィール取得エラーとして返す。
func (p *GoogleOAuthProvider) FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user info request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read user info response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var profile GoogleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse user info response: %w", err)
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("empty email in user info response")
	}

	return &profile, nil
}

// compile-time interface check
var _ OAuthProvider = (*GoogleOAuthProvider)(nil)
