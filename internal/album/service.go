// Package album はアルバム管理のドメインロジックを提供する。
package album

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/photofolio/internal/model"
	"github.com/hitoshi/photofolio/internal/repository"
)

// AlbumWithCover はアルバムと表紙写真（アルバム内先頭の写真）を結合した
// ドメインオブジェクト。一覧表示で使用する。
type AlbumWithCover struct {
	Album *model.Album
	Cover *model.Photo
}

// Service はアルバム管理のサービス層。
// 所有者チェックを伴うCRUDと、公開ポートフォリオ向けの参照を提供する。
type Service struct {
	albumRepo repository.AlbumRepository
	photoRepo repository.PhotoRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(albumRepo repository.AlbumRepository, photoRepo repository.PhotoRepository) *Service {
	return &Service{
		albumRepo: albumRepo,
		photoRepo: photoRepo,
	}
}

// ListWithCovers はユーザーの未削除アルバムを表紙写真付きで返す。
func (s *Service) ListWithCovers(ctx context.Context, userID string) ([]AlbumWithCover, error) {
	albums, err := s.albumRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}

	results := make([]AlbumWithCover, len(albums))
	for i, a := range albums {
		cover, err := s.photoRepo.FirstByAlbumID(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to find cover photo: %w", err)
		}
		results[i] = AlbumWithCover{Album: a, Cover: cover}
	}

	return results, nil
}

// Create は新しいアルバムを作成する。
func (s *Service) Create(ctx context.Context, userID, name string, description *string) (*model.Album, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("album name is required")
	}

	now := time.Now()
	a := &model.Album{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.albumRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return a, nil
}

// Update はアルバム名と説明を更新する。所有者以外の更新は未検出として扱う。
func (s *Service) Update(ctx context.Context, userID, albumID, name string, description *string) (*model.Album, error) {
	a, err := s.findOwned(ctx, userID, albumID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidRequestError("album name is required")
	}

	a.Name = name
	a.Description = description
	a.UpdatedAt = time.Now()

	if err := s.albumRepo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return a, nil
}

// Delete はアルバムを論理削除する。写真のバイナリは削除しない。
func (s *Service) Delete(ctx context.Context, userID, albumID string) error {
	if _, err := s.findOwned(ctx, userID, albumID); err != nil {
		return err
	}
	if err := s.albumRepo.SoftDelete(ctx, albumID); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return nil
}

// ListPhotos はアルバム内の未削除写真を表示順で返す。
func (s *Service) ListPhotos(ctx context.Context, userID, albumID string) ([]*model.Photo, error) {
	if _, err := s.findOwned(ctx, userID, albumID); err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListByAlbumID(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// PublicFirst は指定ユーザーの先頭アルバムを写真付きで返す。
// 公開ポートフォリオのトップページ向け。
func (s *Service) PublicFirst(ctx context.Context, ownerID string) (*model.AlbumWithPhotos, error) {
	a, err := s.albumRepo.FirstByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find first album: %w", err)
	}
	if a == nil {
		return nil, model.NewAlbumNotFoundError("(first)")
	}
	return s.withPhotos(ctx, a)
}

// PublicByName は指定ユーザーのアルバムを名前で検索し写真付きで返す。
func (s *Service) PublicByName(ctx context.Context, ownerID, name string) (*model.AlbumWithPhotos, error) {
	a, err := s.albumRepo.FindByUserAndName(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to find album by name: %w", err)
	}
	if a == nil {
		return nil, model.NewAlbumNotFoundError(name)
	}
	return s.withPhotos(ctx, a)
}

func (s *Service) withPhotos(ctx context.Context, a *model.Album) (*model.AlbumWithPhotos, error) {
	photos, err := s.photoRepo.ListByAlbumID(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return &model.AlbumWithPhotos{Album: a, Photos: photos}, nil
}

// findOwned はアルバムを取得し、呼び出しユーザーの所有物であることを検証する。
// 未検出と他人のアルバムはいずれもALBUM_NOT_FOUNDとして区別しない。
func (s *Service) findOwned(ctx context.Context, userID, albumID string) (*model.Album, error) {
	a, err := s.albumRepo.FindByID(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to find album: %w", err)
	}
	if a == nil || a.Deleted || a.UserID != userID {
		return nil, model.NewAlbumNotFoundError(albumID)
	}
	return a, nil
}
