package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProvider_ListAccounts(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/accounts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Account{
			{Username: "alice", Email: "alice@x.com", Status: "CONFIRMED", Enabled: true},
			{Username: "bob", Email: "bob@x.com", Status: "CONFIRMED", Enabled: false},
		})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "token-123")
	accounts, err := p.ListAccounts(context.Background())
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("accounts = %d, want 2", len(accounts))
	}
	if accounts[0].Email != "alice@x.com" {
		t.Errorf("email = %q", accounts[0].Email)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestHTTPProvider_GetAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/accounts/alice@x.com" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Account{Username: "alice", Email: "alice@x.com", Status: "CONFIRMED", Enabled: true})
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "")

	account, err := p.GetAccount(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if account == nil || !account.Enabled {
		t.Fatalf("account = %#v", account)
	}
}

// 404はエラーではなくnilとして返ることを検証
func TestHTTPProvider_GetAccount_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "")

	account, err := p.GetAccount(context.Background(), "ghost@x.com")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if account != nil {
		t.Errorf("account = %#v, want nil", account)
	}
}

func TestHTTPProvider_GetAccount_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "")

	if _, err := p.GetAccount(context.Background(), "alice@x.com"); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestHTTPProvider_AddToGroup(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if r.URL.Path != "/admin/accounts/alice/groups" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "")
	if err := p.AddToGroup(context.Background(), "alice", "Member"); err != nil {
		t.Fatalf("AddToGroup: %v", err)
	}
	if gotBody["group"] != "Member" {
		t.Errorf("group = %q", gotBody["group"])
	}
}

func TestHTTPProvider_Configured(t *testing.T) {
	if NewHTTPProvider("", "").Configured() {
		t.Error("empty base URL should not be configured")
	}
	if !NewHTTPProvider("https://idp.internal", "").Configured() {
		t.Error("non-empty base URL should be configured")
	}
}
