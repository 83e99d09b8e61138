package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
)

// Pinger はヘルスチェックで使用するデータベース疎通確認のインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenSecret       []byte
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector

	// タスク
	TaskService TaskServiceInterface

	// ユーザーディレクトリ
	AccountLister AccountLister
	AdminGroup    string

	// ライフサイクルフック
	Gatekeeper SignupGatekeeper
	Mirror     ProfileMirror

	// 運用
	DB             Pinger
	MetricsHandler http.Handler

	// SPA配信。nilの場合は配信しない。
	Static http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → CORS → SecurityHeaders → Logging → Recovery → Auth → RateLimit
//
// フック（/hooks/*）、ヘルスチェック、メトリクス、静的配信は認証チェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics))
	r.Use(middleware.NewRecoveryMiddleware())

	taskHandler := NewTaskHandler(deps.TaskService)
	userHandler := NewUserHandler(deps.AccountLister, deps.AdminGroup)
	hookHandler := NewHookHandler(deps.Gatekeeper, deps.Mirror)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler(deps.DB))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// IDプロバイダのライフサイクルフック
	r.Route("/hooks", func(r chi.Router) {
		r.Post("/pre-signup", hookHandler.PreSignup)
		r.Post("/post-confirmation", hookHandler.PostConfirmation)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenSecret))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// タスク管理
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			// POST /tasks - タスク作成（作成専用レート制限を追加）
			r.With(deps.RateLimiter.TaskCreateMiddleware()).Post("/", taskHandler.CreateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Put("/", taskHandler.UpdateTask)
				r.Delete("/", taskHandler.DeleteTask)
			})
		})

		// ユーザーディレクトリ
		r.Get("/users", userHandler.ListUsers)
	})

	// SPA配信。登録済みルートに一致しないパスを受ける。
	// HTMLを要求しないクライアントへの404エンベロープはStatic側が
	// NotFoundHandlerに委譲して返す。
	if deps.Static != nil {
		r.NotFound(deps.Static.ServeHTTP)
	} else {
		r.NotFound(NotFoundHandler().ServeHTTP)
	}

	return r
}

// NotFoundHandler は未知のパスに対して404のエラーエンベロープを返すハンドラー。
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, r, model.NewNotFoundError(""))
	})
}

// healthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
