// Package handler はHTTP APIのハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// handleServiceError はサービス層のエラーを統一エラーレスポンスへ変換する
// 単一のキャッチポイント。APIErrorはそのままのステータス・コードで返し、
// それ以外は詳細をログに残して500を返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, r, apiErr)
		return
	}

	slog.Error("unhandled service error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w, r)
}

// callerClaims はコンテキストから認証済みの呼び出し元を取り出す。
// 認証ミドルウェアの後でのみ呼ばれる想定だが、欠落時は401を書き込みfalseを返す。
func callerClaims(w http.ResponseWriter, r *http.Request) (model.Claims, bool) {
	claims, err := middleware.ClaimsFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, r, &model.APIError{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
			Status:  http.StatusUnauthorized,
		})
		return model.Claims{}, false
	}
	return claims, true
}
