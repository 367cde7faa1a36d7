// Package auth はOAuth認可コードフロー、セッショントークンの発行・検証を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/photofolio/internal/model"
)

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// AuthorizeURL はOAuth認可URLを生成する。
	AuthorizeURL(state string) string
	// ExchangeCode は認可コードをアクセストークンに交換する。
	ExchangeCode(ctx context.Context, code string) (string, error)
	// FetchProfile はアクセストークンでプロバイダーのプロフィールを取得する。
	FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error)
}

// Provisioner はプロバイダープロフィールをローカルユーザーへ解決するインターフェース。
// user.Serviceが実装する。
type Provisioner interface {
	FindOrCreate(ctx context.Context, seed UserSeed) (*model.User, error)
}

// Service はログイン1回分のオーケストレーションを提供する。
// 交換 → プロフィール取得 → プロビジョニング → トークン発行を直列に実行し、
// 最初のエラーで即座に中断する。部分状態は保持しない。
type Service struct {
	oauth       OAuthProvider
	provisioner Provisioner
	codec       *TokenCodec
}

// NewService はServiceを生成する。
func NewService(oauth OAuthProvider, provisioner Provisioner, codec *TokenCodec) *Service {
	return &Service{
		oauth:       oauth,
		provisioner: provisioner,
		codec:       codec,
	}
}

// AuthorizeURL はプロバイダーの認可URLと、コールバックで検証すべき
// 使い捨てのstate値を生成する。
func (s *Service) AuthorizeURL() (string, string, error) {
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	return s.oauth.AuthorizeURL(state), state, nil
}

// HandleCallback はOAuthコールバックを処理し、ローカルユーザーと
// セッショントークンを返す。
// 各ステップのエラーはAPIErrorでラップして返し、リトライは行わない。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.User, string, error) {
	// 1. 認可コードをアクセストークンに交換
	accessToken, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, "", wrapProviderError(model.NewProviderExchangeError(err.Error()), err)
	}

	// 2. アクセストークンでプロフィールを取得
	profile, err := s.oauth.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, "", wrapProviderError(model.NewProviderProfileError(err.Error()), err)
	}

	// 3. プロフィールをローカルユーザーへ解決（初回は許可リスト検査の上で作成）
	user, err := s.provisioner.FindOrCreate(ctx, profile.UserSeed())
	if err != nil {
		return nil, "", fmt.Errorf("failed to provision user: %w", err)
	}

	// 4. セッショントークンを発行
	token, err := s.codec.Encode(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("login completed",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, token, nil
}

// wrapProviderError はAPIErrorと原因エラーを因果チェーンで結合する。
// errors.AsでAPIErrorを、errors.Unwrapで原因を取り出せる。
func wrapProviderError(apiErr *model.APIError, cause error) error {
	return fmt.Errorf("%w: %w", apiErr, cause)
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// IsUserNotAllowed はエラーが許可リスト拒否によるものかを判定する。
func IsUserNotAllowed(err error) bool {
	var apiErr *model.APIError
	return errors.As(err, &apiErr) && apiErr.Code == model.ErrCodeUserNotAllowed
}
