// Package photo は写真管理のドメインロジックを提供する。
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/photofolio/internal/model"
	"github.com/hitoshi/photofolio/internal/repository"
	"github.com/hitoshi/photofolio/internal/storage"
)

// CreateInput は写真メタデータ作成の入力。
// バイナリ本体はUploadで事前に保存済みであることを前提とする。
type CreateInput struct {
	IndexInAlbum int
	S3ID         string
	Src          string
	MainColor    string
	Title        *string
	Description  *string
	Width        int
	Height       int
	IsFavorite   bool
}

// UpdateInput は写真メタデータ更新の入力。
type UpdateInput struct {
	IndexInAlbum int
	IsFavorite   bool
	Title        *string
	Description  *string
}

// UploadResult はバイナリ保存の結果。
type UploadResult struct {
	S3ID string
	Src  string
}

// Service は写真管理のサービス層。
// メタデータのCRUDとバイナリのアップロードを提供する。
type Service struct {
	photoRepo repository.PhotoRepository
	albumRepo repository.AlbumRepository
	store     storage.Storage
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(photoRepo repository.PhotoRepository, albumRepo repository.AlbumRepository, store storage.Storage) *Service {
	return &Service{
		photoRepo: photoRepo,
		albumRepo: albumRepo,
		store:     store,
	}
}

// Create はアルバムに写真メタデータを追加する。
// アルバムが呼び出しユーザーの所有物でない場合はALBUM_NOT_FOUNDを返す。
func (s *Service) Create(ctx context.Context, userID, albumID string, in CreateInput) (*model.Photo, error) {
	a, err := s.albumRepo.FindByID(ctx, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to find album: %w", err)
	}
	if a == nil || a.Deleted || a.UserID != userID {
		return nil, model.NewAlbumNotFoundError(albumID)
	}
	if in.S3ID == "" || in.Src == "" {
		return nil, model.NewInvalidRequestError("s3Id and src are required")
	}

	now := time.Now()
	p := &model.Photo{
		ID:           uuid.New().String(),
		AlbumID:      albumID,
		UserID:       userID,
		IndexInAlbum: in.IndexInAlbum,
		S3ID:         in.S3ID,
		Src:          in.Src,
		MainColor:    in.MainColor,
		Title:        in.Title,
		Description:  in.Description,
		Width:        in.Width,
		Height:       in.Height,
		IsFavorite:   in.IsFavorite,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.photoRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}
	return p, nil
}

// Update は写真の表示順・お気に入り・タイトル・説明を更新する。
func (s *Service) Update(ctx context.Context, userID, photoID string, in UpdateInput) (*model.Photo, error) {
	p, err := s.findOwned(ctx, userID, photoID)
	if err != nil {
		return nil, err
	}

	p.IndexInAlbum = in.IndexInAlbum
	p.IsFavorite = in.IsFavorite
	p.Title = in.Title
	p.Description = in.Description
	p.UpdatedAt = time.Now()

	if err := s.photoRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}
	return p, nil
}

// Delete は写真を論理削除する。オブジェクトストア上のバイナリは残す。
func (s *Service) Delete(ctx context.Context, userID, photoID string) error {
	if _, err := s.findOwned(ctx, userID, photoID); err != nil {
		return err
	}
	if err := s.photoRepo.SoftDelete(ctx, photoID); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// Upload は写真バイナリをオブジェクトストアへ保存し、
// メタデータ作成に使用するキーと公開URLを返す。
// キーは "{uuid}-{filename}" 形式で、ファイル名の空白は除去する。
func (s *Service) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*UploadResult, error) {
	key := fmt.Sprintf("%s-%s", uuid.New().String(), strings.ReplaceAll(filename, " ", ""))

	if err := s.store.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("%w: %w", model.NewUploadFailedError(err.Error()), err)
	}

	src, err := s.store.PublicURL(key)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve public url: %w", err)
	}

	slog.Info("photo uploaded",
		slog.String("key", key),
		slog.String("content_type", contentType),
	)

	return &UploadResult{S3ID: key, Src: src}, nil
}

// findOwned は写真を取得し、呼び出しユーザーの所有物であることを検証する。
func (s *Service) findOwned(ctx context.Context, userID, photoID string) (*model.Photo, error) {
	p, err := s.photoRepo.FindByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to find photo: %w", err)
	}
	if p == nil || p.Deleted || p.UserID != userID {
		return nil, model.NewPhotoNotFoundError(photoID)
	}
	return p, nil
}
