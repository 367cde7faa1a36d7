// Package storage は写真バイナリの永続化を抽象化する。
//
// 本番環境ではAmazon S3を、ローカル開発環境ではファイルシステムを
// バックエンドとして使用する。メタデータはデータベース側で管理し、
// ここではバイナリの保存と公開URLの解決のみを扱う。
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNoPublicURL はバックエンドが公開URLを提供できない場合に返される。
var ErrNoPublicURL = errors.New("storage backend does not provide public URLs")

// Storage はblobストアの抽象インターフェース。
type Storage interface {
	// Upload はキーに対してバイナリを保存する。同一キーへの再保存は上書きとなる。
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error

	// Delete はキーのバイナリを削除する。存在しないキーはエラーとしない。
	Delete(ctx context.Context, key string) error

	// PublicURL はキーに対する公開URLを返す。
	PublicURL(key string) (string, error)
}
