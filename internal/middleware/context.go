// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"

	"github.com/hitoshi/taskdeck/internal/model"
)

type contextKey string

const (
	claimsContextKey    contextKey = "claims"
	requestIDContextKey contextKey = "request_id"
)

// ErrNoClaims はコンテキストに認証情報が存在しないことを示す。
var ErrNoClaims = errors.New("no claims in context")

// WithClaims は検証済みの呼び出し元属性をコンテキストに格納する。
func WithClaims(ctx context.Context, claims model.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext はコンテキストから呼び出し元属性を取り出す。
func ClaimsFromContext(ctx context.Context) (model.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(model.Claims)
	if !ok {
		return model.Claims{}, ErrNoClaims
	}
	return claims, nil
}

// WithRequestID は相関IDをコンテキストに格納する。
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestIDFromContext はコンテキストから相関IDを取り出す。
// 存在しない場合は空文字列を返す。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}
