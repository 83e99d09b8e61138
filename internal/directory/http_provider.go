package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// HTTPProvider はIDプロバイダの管理REST APIを呼び出すProvider実装。
// APIトークンによるBearer認証を使用する。
type HTTPProvider struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

// NewHTTPProvider はHTTPProviderを生成する。
func NewHTTPProvider(baseURL, apiToken string) *HTTPProvider {
	return &HTTPProvider{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured は管理APIのベースURLが設定されているかを返す。
func (p *HTTPProvider) Configured() bool {
	return p.baseURL != ""
}

// ListAccounts は全アカウントを取得する。
// GET {base}/admin/accounts
func (p *HTTPProvider) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := p.doJSON(ctx, http.MethodGet, "/admin/accounts", nil, &accounts); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetAccount はメールアドレスでアカウントを検索する。
// GET {base}/admin/accounts/{email}
// 404の場合はnilを返す。
func (p *HTTPProvider) GetAccount(ctx context.Context, email string) (*Account, error) {
	account := &Account{}
	err := p.doJSON(ctx, http.MethodGet, "/admin/accounts/"+url.PathEscape(email), nil, account)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// AddToGroup は指定アカウントをグループに追加する。
// POST {base}/admin/accounts/{username}/groups {"group": name}
func (p *HTTPProvider) AddToGroup(ctx context.Context, username, group string) error {
	body := map[string]string{"group": group}
	path := "/admin/accounts/" + url.PathEscape(username) + "/groups"
	if err := p.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to add account to group: %w", err)
	}
	return nil
}

// errNotFound は404レスポンスを表す内部センチネル。
var errNotFound = fmt.Errorf("account not found")

// doJSON はJSONリクエストを送信し、レスポンスをoutへデコードする。
func (p *HTTPProvider) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// compile-time interface check
var _ Provider = (*HTTPProvider)(nil)
