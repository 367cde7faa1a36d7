// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/photofolio/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail はメールアドレス完全一致でユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// CreateWithDefaultAlbums はユーザーとデフォルトアルバムを同一トランザクションで作成する。
	// アルバム作成に失敗した場合はユーザー作成もロールバックされる。
	CreateWithDefaultAlbums(ctx context.Context, user *model.User, albums []*model.Album) error
}

// AlbumRepository はアルバムデータの永続化インターフェース。
type AlbumRepository interface {
	// FindByID は指定IDのアルバムを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Album, error)

	// FindByUserAndName はユーザーIDとアルバム名でアルバムを検索する。
	// ソフトデリート済みは対象外。見つからない場合はnilを返す。
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Album, error)

	// FirstByUserID はユーザーの最初の未削除アルバムを返す。見つからない場合はnilを返す。
	// 公開メインアルバムの解決に使用する。
	FirstByUserID(ctx context.Context, userID string) (*model.Album, error)

	// ListByUserID はユーザーの未削除アルバム一覧を作成日時昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Album, error)

	// Create はアルバムを作成する。
	Create(ctx context.Context, album *model.Album) error

	// Update はアルバムの名前と説明を更新し、updated_atを進める。
	Update(ctx context.Context, album *model.Album) error

	// SoftDelete はアルバムにdeletedフラグを立てる。行が存在しない場合はエラーを返す。
	SoftDelete(ctx context.Context, id string) error
}

// PhotoRepository は写真メタデータの永続化インターフェース。
type PhotoRepository interface {
	// FindByID は指定IDの写真を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Photo, error)

	// ListByAlbumID はアルバムの未削除写真一覧をindex_in_album昇順で返す。
	ListByAlbumID(ctx context.Context, albumID string) ([]*model.Photo, error)

	// FirstByAlbumID はアルバムのカバー写真（最初の未削除写真）を返す。
	// 見つからない場合はnilを返す。
	FirstByAlbumID(ctx context.Context, albumID string) (*model.Photo, error)

	// Create は写真を作成する。
	Create(ctx context.Context, photo *model.Photo) error

	// Update は写真の表示順・お気に入り・タイトル・説明を更新し、updated_atを進める。
	Update(ctx context.Context, photo *model.Photo) error

	// SoftDelete は写真にdeletedフラグを立てる。行が存在しない場合はエラーを返す。
	SoftDelete(ctx context.Context, id string) error
}

// BookMeRepository は問い合わせ先データの永続化インターフェース。
type BookMeRepository interface {
	// FindByUserID はユーザーの問い合わせ先を取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.BookMe, error)

	// Upsert はユーザーの問い合わせ先を冪等に作成または更新する。
	// UNIQUE(user_id)によりユーザーごとに1件のみ保持される。
	Upsert(ctx context.Context, info *model.BookMe) (*model.BookMe, error)
}
