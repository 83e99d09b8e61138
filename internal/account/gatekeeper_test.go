package account

import (
	"testing"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
)

type signupMetrics struct {
	allowed int
	denied  int
}

func (m *signupMetrics) RecordAuditWriteFailure(action string) {}
func (m *signupMetrics) RecordNotificationSent(kind string)    {}
func (m *signupMetrics) RecordNotificationFailure(kind string) {}
func (m *signupMetrics) RecordSignupDecision(ok bool) {
	if ok {
		m.allowed++
	} else {
		m.denied++
	}
}
func (m *signupMetrics) RecordHTTPStatus(statusCode int)      {}
func (m *signupMetrics) RecordRequestLatency(d time.Duration) {}

func TestGatekeeper_Check(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "allowed domain", email: "alice@example.com", wantErr: false},
		{name: "allowed second domain", email: "bob@corp.example.org", wantErr: false},
		{name: "case insensitive", email: "carol@EXAMPLE.COM", wantErr: false},
		{name: "foreign domain", email: "eve@evil.com", wantErr: true},
		{name: "subdomain does not match", email: "eve@sub.example.com", wantErr: true},
		{name: "missing at sign", email: "nonsense", wantErr: true},
		{name: "trailing at sign", email: "dangling@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGatekeeper([]string{"example.com", "corp.example.org"}, &signupMetrics{})
			err := g.Check(tt.email)
			if tt.wantErr && err == nil {
				t.Error("expected rejection")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected rejection: %v", err)
			}
		})
	}
}

func TestGatekeeper_Check_ReturnsValidationError(t *testing.T) {
	g := NewGatekeeper([]string{"example.com"}, &signupMetrics{})

	err := g.Check("eve@evil.com")
	apiErr, ok := err.(*model.APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeValidation {
		t.Errorf("code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
}

func TestGatekeeper_Check_RecordsDecisions(t *testing.T) {
	m := &signupMetrics{}
	g := NewGatekeeper([]string{"example.com"}, m)

	g.Check("alice@example.com")
	g.Check("eve@evil.com")
	g.Check("bob@example.com")

	if m.allowed != 2 {
		t.Errorf("allowed = %d, want 2", m.allowed)
	}
	if m.denied != 1 {
		t.Errorf("denied = %d, want 1", m.denied)
	}
}

// 設定値の余分な空白と大文字が正規化されることを検証
func TestNewGatekeeper_NormalizesDomains(t *testing.T) {
	g := NewGatekeeper([]string{" Example.COM ", ""}, &signupMetrics{})

	if err := g.Check("alice@example.com"); err != nil {
		t.Errorf("unexpected rejection: %v", err)
	}
}
