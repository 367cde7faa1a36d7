package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/photofolio/internal/model"
)

// PostgresBookMeRepo はPostgreSQLを使用した問い合わせ先リポジトリ。
type PostgresBookMeRepo struct {
	db *sql.DB
}

// NewPostgresBookMeRepo はPostgresBookMeRepoを生成する。
func NewPostgresBookMeRepo(db *sql.DB) *PostgresBookMeRepo {
	return &PostgresBookMeRepo{db: db}
}

// FindByUserID はユーザーの問い合わせ先を取得する。見つからない場合はnilを返す。
func (r *PostgresBookMeRepo) FindByUserID(ctx context.Context, userID string) (*model.BookMe, error) {
	info := &model.BookMe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, email FROM book_me WHERE user_id = $1`,
		userID,
	).Scan(&info.ID, &info.UserID, &info.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book me info: %w", err)
	}

	return info, nil
}

// Upsert はユーザーの問い合わせ先を冪等に作成または更新する。
// user_idが既に存在する場合はemailのみ更新する。
func (r *PostgresBookMeRepo) Upsert(ctx context.Context, info *model.BookMe) (*model.BookMe, error) {
	result := &model.BookMe{}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO book_me (id, user_id, email)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email
		 RETURNING id, user_id, email`,
		info.ID, info.UserID, info.Email,
	).Scan(&result.ID, &result.UserID, &result.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert book me info: %w", err)
	}

	return result, nil
}

// compile-time interface check
var _ BookMeRepository = (*PostgresBookMeRepo)(nil)
