// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/photofolio/internal/album"
	"github.com/hitoshi/photofolio/internal/auth"
	"github.com/hitoshi/photofolio/internal/bookme"
	"github.com/hitoshi/photofolio/internal/config"
	"github.com/hitoshi/photofolio/internal/database"
	"github.com/hitoshi/photofolio/internal/handler"
	"github.com/hitoshi/photofolio/internal/logger"
	"github.com/hitoshi/photofolio/internal/mail"
	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/middleware"
	"github.com/hitoshi/photofolio/internal/photo"
	"github.com/hitoshi/photofolio/internal/repository"
	"github.com/hitoshi/photofolio/internal/security"
	"github.com/hitoshi/photofolio/internal/storage"
	"github.com/hitoshi/photofolio/internal/user"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "7878"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("public_api_url", cfg.PublicAPIURL),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	albumRepo := repository.NewPostgresAlbumRepo(db)
	photoRepo := repository.NewPostgresPhotoRepo(db)
	bookMeRepo := repository.NewPostgresBookMeRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ストレージの初期化
	store, uploadsDir, err := buildStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	// 5. メーラーとサニタイザーの初期化
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
		slog.Warn("mailgun credentials are not set, contact form relay will fail")
	}
	mailer := mail.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey)
	sanitizer := security.NewContactSanitizer()

	// 6. ドメインサービスの初期化
	oauthProvider := auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  strings.TrimRight(cfg.PublicAPIURL, "/") + "/google/redirect",
	})
	tokenCodec := auth.NewTokenCodec(cfg.TokenSecret, cfg.TokenTTL)
	userService := user.NewService(userRepo, cfg.AllowedEmails, collector)
	authService := auth.NewService(oauthProvider, userService, tokenCodec)

	albumService := album.NewService(albumRepo, photoRepo)
	photoService := photo.NewService(photoRepo, albumRepo, store)
	bookMeService := bookme.NewService(bookMeRepo, userRepo, mailer, sanitizer)

	// 7. ルーターの構築
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.UploadRate = rate.Limit(float64(cfg.RateLimitUpload) / 60.0)
	rateLimiterCfg.UploadBurst = cfg.RateLimitUpload
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	cookieSecure := strings.HasPrefix(cfg.PublicAPIURL, "https://")

	deps := &handler.RouterDeps{
		TokenVerifier:     tokenCodec,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		Collector:         collector,
		Gatherer:          registry,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			RedirectClientURL: cfg.RedirectClientURL,
			CookieSecure:      cookieSecure,
		},

		UserService:   userService,
		AlbumService:  albumService,
		PhotoService:  photoService,
		BookMeService: bookMeService,

		DB:               db,
		StaticUploadsDir: uploadsDir,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// buildStorage は設定に応じたストレージバックエンドを構築する。
// ファイルシステムバックエンドの場合は静的配信用のディレクトリも返す。
func buildStorage(cfg *config.Config) (storage.Storage, string, error) {
	switch cfg.StorageBackend {
	case "filesystem":
		baseURL := strings.TrimRight(cfg.PublicAPIURL, "/") + "/uploads"
		fs, err := storage.NewFilesystemStorage(cfg.StorageRoot, baseURL)
		if err != nil {
			return nil, "", err
		}
		slog.Info("using filesystem storage", slog.String("root", cfg.StorageRoot))
		return fs, cfg.StorageRoot, nil
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3, err := storage.NewS3Storage(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			return nil, "", err
		}
		slog.Info("using s3 storage",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.AWSRegion),
		)
		return s3, "", nil
	default:
		return nil, "", fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
