// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/photofolio/internal/auth"
	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/model"
	"github.com/hitoshi/photofolio/internal/repository"
)

// デフォルトアルバム。初回ログインでユーザーと同一トランザクション内に作成する。
const (
	defaultAlbumName        = "weddings"
	defaultAlbumDescription = "Wedding pictures"
)

// Service はユーザーのプロビジョニングと参照を提供する。
// アカウント作成は許可リスト方式で、自己登録は受け付けない。
type Service struct {
	userRepo      repository.UserRepository
	allowedEmails map[string]struct{}
	collector     metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// allowedEmailsの比較は小文字に正規化して行う。collectorはnil可。
func NewService(userRepo repository.UserRepository, allowedEmails []string, collector metrics.MetricsCollector) *Service {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, email := range allowedEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		allowed[email] = struct{}{}
	}
	return &Service{
		userRepo:      userRepo,
		allowedEmails: allowed,
		collector:     collector,
	}
}

// FindOrCreate はプロバイダープロフィールをローカルユーザーへ解決する。
// 既存ユーザーはプロフィールを更新せずそのまま返す。
// 未登録のメールアドレスは許可リストを検査し、許可されていれば
// ユーザーとデフォルトアルバムを同一トランザクションで作成する。
func (s *Service) FindOrCreate(ctx context.Context, seed auth.UserSeed) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, seed.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		slog.Info("existing user logged in",
			slog.String("user_id", existing.ID),
			slog.String("email", existing.Email),
		)
		return existing, nil
	}

	if !s.isAllowed(seed.Email) {
		slog.Warn("login rejected: email not in allow list",
			slog.String("email", seed.Email),
		)
		return nil, model.NewUserNotAllowedError(seed.Email)
	}

	now := time.Now()
	newUser := &model.User{
		ID:        uuid.New().String(),
		Email:     seed.Email,
		Picture:   seed.Picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	defaults := []*model.Album{
		{
			ID:          uuid.New().String(),
			UserID:      newUser.ID,
			Name:        defaultAlbumName,
			Description: ptr(defaultAlbumDescription),
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}

	if err := s.userRepo.CreateWithDefaultAlbums(ctx, newUser, defaults); err != nil {
		return nil, fmt.Errorf("failed to create user with default albums: %w", err)
	}

	slog.Info("new user created",
		slog.String("user_id", newUser.ID),
		slog.String("email", newUser.Email),
	)
	if s.collector != nil {
		s.collector.RecordUserProvisioned()
	}

	return newUser, nil
}

// FindByEmail はメールアドレスでユーザーを取得する。
// 見つからない場合はUSER_NOT_FOUNDエラーを返す。
func (s *Service) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

// FindByID はIDでユーザーを取得する。
func (s *Service) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

func (s *Service) isAllowed(email string) bool {
	_, ok := s.allowedEmails[strings.ToLower(email)]
	return ok
}

func ptr(s string) *string {
	return &s
}

// Serviceがauth.Provisionerを実装していることをコンパイル時に検証する。
var _ auth.Provisioner = (*Service)(nil)
