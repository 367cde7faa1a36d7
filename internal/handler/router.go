package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/photofolio/internal/metrics"
	"github.com/hitoshi/photofolio/internal/middleware"
)

// DBPinger はヘルスチェックに必要なデータベース疎通確認のインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Collector         metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	UserService   UserServiceInterface
	AlbumService  AlbumServiceInterface
	PhotoService  PhotoServiceInterface
	BookMeService BookMeServiceInterface

	// ヘルスチェック
	DB DBPinger

	// StaticUploadsDir が設定されている場合、/uploads/* でその
	// ディレクトリを静的配信する。ファイルシステムストレージ用。
	StaticUploadsDir string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORSMiddleware → SecurityHeaders → Recovery → Logging →
//	AuthMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/google/*）と公開ルート（/api/public/*）は認証ミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Collector)
	userHandler := NewUserHandler(deps.UserService)
	albumHandler := NewAlbumHandler(deps.AlbumService)
	photoHandler := NewPhotoHandler(deps.PhotoService, deps.Collector)
	bookMeHandler := NewBookMeHandler(deps.BookMeService, deps.Collector)

	// --- 認証不要のルート ---

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/health", newHealthHandler(deps.DB))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	if deps.StaticUploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(deps.StaticUploadsDir)))
		r.Method(http.MethodGet, "/uploads/*", fileServer)
	}

	// OAuthフロー
	r.Get("/google/authorize", authHandler.Authorize)
	r.Get("/google/redirect", authHandler.Redirect)

	// 公開ポートフォリオ
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/album", albumHandler.PublicFirst)
		r.Get("/album/{name}", albumHandler.PublicByName)
		r.Post("/book_me", bookMeHandler.Contact)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", userHandler.Me)

			// アルバム管理
			r.Get("/albums", albumHandler.List)
			r.Post("/album", albumHandler.Create)
			r.Route("/album/{id}", func(r chi.Router) {
				r.Put("/", albumHandler.Update)
				r.Delete("/", albumHandler.Delete)
				r.Get("/photos", albumHandler.ListPhotos)
				r.Post("/photo", photoHandler.Create)
			})

			// 写真管理
			// POST /api/photo/upload - アップロード専用レート制限を追加
			r.With(deps.RateLimiter.UploadMiddleware()).Post("/photo/upload", photoHandler.Upload)
			r.Route("/photo/{id}", func(r chi.Router) {
				r.Put("/", photoHandler.Update)
				r.Delete("/", photoHandler.Delete)
			})

			// 問い合わせ先管理
			r.Get("/book_me", bookMeHandler.Get)
			r.Put("/book_me", bookMeHandler.Put)
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}
}
