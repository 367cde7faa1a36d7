package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemStorage はローカルファイルシステムをバックエンドとするStorage実装。
// S3を用意せずに開発環境を動かすためのもので、公開URLはbaseURL配下の
// 静的配信パスを指す。
type FilesystemStorage struct {
	root    string
	baseURL string
}

// NewFilesystemStorage はルートディレクトリを作成してFilesystemStorageを生成する。
// baseURLは公開URL組み立てに使用する（例: http://localhost:7878/uploads）。
func NewFilesystemStorage(root, baseURL string) (*FilesystemStorage, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", absRoot, err)
	}
	return &FilesystemStorage{
		root:    absRoot,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload はキーに対してバイナリを保存する。
func (fs *FilesystemStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	path, err := fs.resolve(key)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	_, copyErr := io.Copy(f, body)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to write %s: %w", path, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	slog.Info("photo stored on filesystem", slog.String("key", key))
	return nil
}

// Delete はキーのバイナリを削除する。存在しないキーはエラーとしない。
func (fs *FilesystemStorage) Delete(ctx context.Context, key string) error {
	path, err := fs.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// PublicURL はbaseURL配下の公開URLを返す。
func (fs *FilesystemStorage) PublicURL(key string) (string, error) {
	if fs.baseURL == "" {
		return "", ErrNoPublicURL
	}
	return fs.baseURL + "/" + url.PathEscape(key), nil
}

// resolve はキーをルート配下の絶対パスへ解決する。
// パストラバーサルを防ぐため ".." を含むキーは拒否する。
func (fs *FilesystemStorage) resolve(key string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key: %s", key)
	}
	return filepath.Join(fs.root, key), nil
}

var _ Storage = (*FilesystemStorage)(nil)
