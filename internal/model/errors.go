// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"net/http"
)

// APIError は統一エラーフォーマットを表す。
// HTTPステータスと機械判読可能なエラーコードを持ち、
// ハンドラー層の単一のキャッチポイントでレスポンスエンベロープに変換される。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeForbidden  = "FORBIDDEN"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_SERVER_ERROR"
)

// NewValidationError は入力不正エラー（400）を生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:    ErrCodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewForbiddenError は認可エラー（403）を生成する。
// messageが空の場合はデフォルトメッセージを使用する。
func NewForbiddenError(message string) *APIError {
	if message == "" {
		message = "You do not have permission to perform this action"
	}
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// NewNotFoundError はリソース未検出エラー（404）を生成する。
func NewNotFoundError(message string) *APIError {
	if message == "" {
		message = "Resource not found"
	}
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}
