package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Server
	// PublicAPIURLはOAuthリダイレクトURLの組み立てに使用する公開ベースURL。
	PublicAPIURL string
	ServerPort   string

	// Token
	TokenSecret string
	TokenTTL    time.Duration

	// Login
	// RedirectClientURLが設定されている場合、ログイン完了時はJSONではなく
	// このURLへtokenクエリ付きでリダイレクトする（デプロイモードスイッチ）。
	RedirectClientURL string
	// AllowedEmailsは自己プロビジョニングを許可するメールアドレスの集合。
	// プロセス起動時に確定し、実行中は変更されない。
	AllowedEmails []string

	// Storage
	StorageBackend string // "s3" または "filesystem"
	S3Bucket       string
	AWSRegion      string
	StorageRoot    string

	// Mail
	MailgunDomain string
	MailgunAPIKey string

	// CORS
	CORSAllowedOrigin string

	// Rate Limit（req/min/user）
	RateLimitGeneral int
	RateLimitUpload  int
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}

	cfg.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}

	cfg.PublicAPIURL = os.Getenv("PUBLIC_API_URL")
	if cfg.PublicAPIURL == "" {
		missing = append(missing, "PUBLIC_API_URL")
	}

	cfg.TokenSecret = os.Getenv("TOKEN_SECRET")
	if cfg.TokenSecret == "" {
		missing = append(missing, "TOKEN_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = getEnvString("SERVER_PORT", "7878")
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", time.Hour)
	cfg.RedirectClientURL = os.Getenv("REDIRECT_CLIENT_URL")
	cfg.AllowedEmails = splitEmails(os.Getenv("ALLOWED_EMAILS"))
	cfg.StorageBackend = getEnvString("STORAGE_BACKEND", "s3")
	cfg.S3Bucket = os.Getenv("AWS_S3_BUCKET_NAME")
	cfg.AWSRegion = getEnvString("AWS_REGION", "us-east-1")
	cfg.StorageRoot = getEnvString("STORAGE_ROOT", "./uploads")
	cfg.MailgunDomain = os.Getenv("MAILGUN_DOMAIN")
	cfg.MailgunAPIKey = os.Getenv("MAILGUN_API_KEY")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitUpload = getEnvInt("RATE_LIMIT_UPLOAD", 10)

	if cfg.StorageBackend == "s3" && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET_NAME is required when STORAGE_BACKEND is s3")
	}

	return cfg, nil
}

// splitEmails はカンマ区切りの許可リストをパースする。
// 空要素は取り除き、前後の空白はトリムする。
func splitEmails(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			emails = append(emails, p)
		}
	}
	return emails
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// getEnvDuration は環境変数をDurationとして読み取る。
// 単位なしの整数は秒として解釈する（TOKEN_TTL=3600 は1時間）。
// Go形式のDuration文字列（"30m"など）も受け付ける。
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
