// Package model はドメインモデルを定義する。
package model

import "time"

// User はポートフォリオの所有者を表す。
// 初回ログインの成功時に一度だけ作成され、以後このシステムからは削除されない。
type User struct {
	ID        string
	Email     string
	Picture   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Album は写真を束ねるコンテナを表す。
// 削除はdeletedフラグによるソフトデリートで、一覧からは除外される。
type Album struct {
	ID          string
	UserID      string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Deleted     bool
}

// AlbumWithPhotos はアルバムとその写真を結合した構造体。
// 一覧APIではカバー写真1枚のみ、詳細APIでは全写真を含む。
type AlbumWithPhotos struct {
	Album  *Album
	Photos []*Photo
}

// Photo はオブジェクトストアにアップロード済みの写真1枚のメタデータを表す。
// 実データはS3Idのキーで参照し、Srcが公開URLを保持する。
type Photo struct {
	ID           string
	AlbumID      string
	UserID       string
	IndexInAlbum int
	S3ID         string
	Src          string
	MainColor    string
	Title        *string
	Description  *string
	Width        int
	Height       int
	IsFavorite   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Deleted      bool
}

// BookMe は問い合わせフォームの送信先を表す。
// ユーザーごとに最大1件（UNIQUE(user_id)）。
type BookMe struct {
	ID     string
	UserID string
	Email  string
}
