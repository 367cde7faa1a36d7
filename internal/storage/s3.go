package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client はS3操作のうち本パッケージが使用するサブセット。
// テストではモック実装を注入する。
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage はAmazon S3をバックエンドとするStorage実装。
type S3Storage struct {
	client S3Client
	bucket string
	region string
}

// NewS3Storage はデフォルトの認証情報チェーンでS3クライアントを初期化する。
func NewS3Storage(ctx context.Context, bucket, region string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// NewS3StorageWithClient はクライアントを注入してS3Storageを生成する。テスト用。
func NewS3StorageWithClient(client S3Client, bucket, region string) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// Upload はキーに対してバイナリを保存する。
func (s *S3Storage) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return nil
}

// Delete はキーのバイナリを削除する。
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL はバケットの仮想ホスト形式のURLを返す。
// キーに含まれる空白は保存時と同様に除去する。
func (s *S3Storage) PublicURL(key string) (string, error) {
	key = strings.ReplaceAll(key, " ", "")
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, url.PathEscape(key)), nil
}

var _ Storage = (*S3Storage)(nil)
