// Package directory は外部IDプロバイダの管理APIへのアクセスを提供する。
// ロールと有効状態の真実源はこのプロバイダであり、ローカルのミラーではない。
package directory

import "context"

// Account はIDプロバイダ上のアカウントを表す。
type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	Enabled  bool   `json:"enabled"`
}

// Provider はIDプロバイダ管理APIのインターフェース。
// テストではインメモリのフェイクに差し替える。
type Provider interface {
	// ListAccounts は全アカウントを取得する。
	ListAccounts(ctx context.Context) ([]Account, error)

	// GetAccount はメールアドレスでアカウントを検索する。見つからない場合はnilを返す。
	GetAccount(ctx context.Context, email string) (*Account, error)

	// AddToGroup は指定アカウントをグループに追加する。
	AddToGroup(ctx context.Context, username, group string) error
}
