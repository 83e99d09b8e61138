package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/model"
)

// SignupGatekeeper はサインアップ前のメールドメイン審査インターフェース。
type SignupGatekeeper interface {
	// Check は拒否時にエラーを返す。
	Check(email string) error
}

// ProfileMirror はアカウント確認時のプロファイル複製インターフェース。
type ProfileMirror interface {
	Confirm(ctx context.Context, userID, email, name string) error
}

// HookHandler はIDプロバイダのライフサイクルフックを受けるHTTPハンドラー。
// 認証チェーンの外に配置され、IDプロバイダから直接呼ばれる。
type HookHandler struct {
	gatekeeper SignupGatekeeper
	mirror     ProfileMirror
}

// NewHookHandler はHookHandlerを生成する。
func NewHookHandler(gatekeeper SignupGatekeeper, mirror ProfileMirror) *HookHandler {
	return &HookHandler{gatekeeper: gatekeeper, mirror: mirror}
}

// preSignupRequest はサインアップ前フックのボディ。
type preSignupRequest struct {
	Email string `json:"email"`
}

// postConfirmationRequest はアカウント確認フックのボディ。
type postConfirmationRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// PreSignup はサインアップ希望者のメールドメインを審査する。
// POST /hooks/pre-signup
func (h *HookHandler) PreSignup(w http.ResponseWriter, r *http.Request) {
	var req preSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, r, model.NewValidationError("Invalid request body"))
		return
	}

	if err := h.gatekeeper.Check(req.Email); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"allow": true})
}

// PostConfirmation はアカウント確認済みユーザーのプロファイルを複製する。
// 複製に失敗してもフックは成功応答を返す。確認済みアカウントの
// ログインをこちら側の障害で妨げないためで、失敗はログにのみ残る。
// POST /hooks/post-confirmation
func (h *HookHandler) PostConfirmation(w http.ResponseWriter, r *http.Request) {
	var req postConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleServiceError(w, r, model.NewValidationError("Invalid request body"))
		return
	}

	if req.UserID == "" || req.Email == "" {
		handleServiceError(w, r, model.NewValidationError("userId and email are required"))
		return
	}

	if err := h.mirror.Confirm(r.Context(), req.UserID, req.Email, req.Name); err != nil {
		slog.Error("profile mirror failed",
			slog.String("user_id", req.UserID),
			slog.String("error", err.Error()),
		)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
