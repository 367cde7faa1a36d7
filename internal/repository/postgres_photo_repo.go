package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/photofolio/internal/model"
)

// PostgresPhotoRepo はPostgreSQLを使用した写真リポジトリ。
type PostgresPhotoRepo struct {
	db *sql.DB
}

// NewPostgresPhotoRepo はPostgresPhotoRepoを生成する。
func NewPostgresPhotoRepo(db *sql.DB) *PostgresPhotoRepo {
	return &PostgresPhotoRepo{db: db}
}

const photoColumns = `id, album_id, user_id, index_in_album, s3_id, src, main_color,
	title, description, width, height, is_favorite, created_at, updated_at, deleted`

// scanPhotoRow は現在行をmodel.Photoにスキャンする。
func scanPhotoRow(scan func(dest ...any) error) (*model.Photo, error) {
	photo := &model.Photo{}
	err := scan(&photo.ID, &photo.AlbumID, &photo.UserID, &photo.IndexInAlbum,
		&photo.S3ID, &photo.Src, &photo.MainColor, &photo.Title, &photo.Description,
		&photo.Width, &photo.Height, &photo.IsFavorite,
		&photo.CreatedAt, &photo.UpdatedAt, &photo.Deleted)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

// FindByID は指定IDの写真を取得する。見つからない場合はnilを返す。
func (r *PostgresPhotoRepo) FindByID(ctx context.Context, id string) (*model.Photo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = $1`, id)

	photo, err := scanPhotoRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find photo by ID: %w", err)
	}
	return photo, nil
}

// ListByAlbumID はアルバムの未削除写真一覧をindex_in_album昇順で返す。
func (r *PostgresPhotoRepo) ListByAlbumID(ctx context.Context, albumID string) ([]*model.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+photoColumns+` FROM photos
		 WHERE album_id = $1 AND deleted = FALSE
		 ORDER BY index_in_album ASC, created_at ASC`,
		albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*model.Photo
	for rows.Next() {
		photo, err := scanPhotoRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photos: %w", err)
	}

	return photos, nil
}

// FirstByAlbumID はアルバムのカバー写真を返す。見つからない場合はnilを返す。
func (r *PostgresPhotoRepo) FirstByAlbumID(ctx context.Context, albumID string) (*model.Photo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos
		 WHERE album_id = $1 AND deleted = FALSE
		 ORDER BY index_in_album ASC, created_at ASC LIMIT 1`,
		albumID)

	photo, err := scanPhotoRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find cover photo: %w", err)
	}
	return photo, nil
}

// Create は写真を作成する。
func (r *PostgresPhotoRepo) Create(ctx context.Context, photo *model.Photo) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO photos (id, album_id, user_id, index_in_album, s3_id, src, main_color,
		 title, description, width, height, is_favorite, created_at, updated_at, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		photo.ID, photo.AlbumID, photo.UserID, photo.IndexInAlbum, photo.S3ID, photo.Src,
		photo.MainColor, photo.Title, photo.Description, photo.Width, photo.Height,
		photo.IsFavorite, photo.CreatedAt, photo.UpdatedAt, photo.Deleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}
	return nil
}

// Update は写真の表示順・お気に入り・タイトル・説明を更新し、updated_atを進める。
func (r *PostgresPhotoRepo) Update(ctx context.Context, photo *model.Photo) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE photos SET index_in_album = $1, is_favorite = $2, title = $3,
		 description = $4, updated_at = $5 WHERE id = $6`,
		photo.IndexInAlbum, photo.IsFavorite, photo.Title, photo.Description,
		photo.UpdatedAt, photo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo not found: %s", photo.ID)
	}
	return nil
}

// SoftDelete は写真にdeletedフラグを立てる。行が存在しない場合はエラーを返す。
func (r *PostgresPhotoRepo) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE photos SET deleted = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("photo not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ PhotoRepository = (*PostgresPhotoRepo)(nil)
