package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/photofolio/internal/model"
)

// PostgresAlbumRepo はPostgreSQLを使用したアルバムリポジトリ。
type PostgresAlbumRepo struct {
	db *sql.DB
}

// NewPostgresAlbumRepo はPostgresAlbumRepoを生成する。
func NewPostgresAlbumRepo(db *sql.DB) *PostgresAlbumRepo {
	return &PostgresAlbumRepo{db: db}
}

const albumColumns = `id, user_id, name, description, created_at, updated_at, deleted`

// scanAlbum は1行をmodel.Albumにスキャンする。
func scanAlbum(row *sql.Row) (*model.Album, error) {
	album := &model.Album{}
	err := row.Scan(&album.ID, &album.UserID, &album.Name, &album.Description,
		&album.CreatedAt, &album.UpdatedAt, &album.Deleted)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

// FindByID は指定IDのアルバムを取得する。見つからない場合はnilを返す。
func (r *PostgresAlbumRepo) FindByID(ctx context.Context, id string) (*model.Album, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = $1`, id)

	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find album by ID: %w", err)
	}
	return album, nil
}

// FindByUserAndName はユーザーIDとアルバム名でアルバムを検索する。見つからない場合はnilを返す。
func (r *PostgresAlbumRepo) FindByUserAndName(ctx context.Context, userID, name string) (*model.Album, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums
		 WHERE user_id = $1 AND name = $2 AND deleted = FALSE`,
		userID, name)

	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find album by name: %w", err)
	}
	return album, nil
}

// FirstByUserID はユーザーの最初の未削除アルバムを返す。見つからない場合はnilを返す。
func (r *PostgresAlbumRepo) FirstByUserID(ctx context.Context, userID string) (*model.Album, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums
		 WHERE user_id = $1 AND deleted = FALSE
		 ORDER BY created_at ASC LIMIT 1`,
		userID)

	album, err := scanAlbum(row)
	if err != nil {
		return nil, fmt.Errorf("failed to find first album: %w", err)
	}
	return album, nil
}

// ListByUserID はユーザーの未削除アルバム一覧を作成日時昇順で返す。
func (r *PostgresAlbumRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Album, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+albumColumns+` FROM albums
		 WHERE user_id = $1 AND deleted = FALSE
		 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*model.Album
	for rows.Next() {
		album := &model.Album{}
		if err := rows.Scan(&album.ID, &album.UserID, &album.Name, &album.Description,
			&album.CreatedAt, &album.UpdatedAt, &album.Deleted); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate albums: %w", err)
	}

	return albums, nil
}

// Create はアルバムを作成する。
func (r *PostgresAlbumRepo) Create(ctx context.Context, album *model.Album) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO albums (id, user_id, name, description, created_at, updated_at, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		album.ID, album.UserID, album.Name, album.Description,
		album.CreatedAt, album.UpdatedAt, album.Deleted,
	)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	return nil
}

// Update はアルバムの名前と説明を更新し、updated_atを進める。
func (r *PostgresAlbumRepo) Update(ctx context.Context, album *model.Album) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE albums SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		album.Name, album.Description, album.UpdatedAt, album.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("album not found: %s", album.ID)
	}
	return nil
}

// SoftDelete はアルバムにdeletedフラグを立てる。行が存在しない場合はエラーを返す。
func (r *PostgresAlbumRepo) SoftDelete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE albums SET deleted = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("album not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ AlbumRepository = (*PostgresAlbumRepo)(nil)
