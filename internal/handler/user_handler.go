package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/taskdeck/internal/authz"
	"github.com/hitoshi/taskdeck/internal/directory"
	"github.com/hitoshi/taskdeck/internal/model"
)

// AccountLister はユーザーディレクトリの一覧取得インターフェース。
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]directory.Account, error)
}

// UserHandler はユーザーディレクトリのHTTPハンドラー。
type UserHandler struct {
	lister     AccountLister
	adminGroup string
}

// NewUserHandler はUserHandlerを生成する。listerはnilでもよく、
// その場合は503を返す。
func NewUserHandler(lister AccountLister, adminGroup string) *UserHandler {
	return &UserHandler{lister: lister, adminGroup: adminGroup}
}

// ListUsers はディレクトリの全アカウント一覧を返す。管理者のみ。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := callerClaims(w, r)
	if !ok {
		return
	}

	if !authz.IsAdmin(claims, h.adminGroup) {
		handleServiceError(w, r, model.NewForbiddenError("Only admins can list users"))
		return
	}

	if h.lister == nil {
		handleServiceError(w, r, &model.APIError{
			Code:    "DIRECTORY_UNAVAILABLE",
			Message: "User directory is not configured",
			Status:  http.StatusServiceUnavailable,
		})
		return
	}

	accounts, err := h.lister.ListAccounts(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if accounts == nil {
		accounts = []directory.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}
