// Package account はサインアップ審査とユーザープロファイルのミラーリングを提供する。
package account

import (
	"fmt"
	"strings"

	"github.com/hitoshi/taskdeck/internal/metrics"
	"github.com/hitoshi/taskdeck/internal/model"
)

// Gatekeeper はサインアップ前のメールドメイン審査を行う。
type Gatekeeper struct {
	allowedDomains []string
	metrics        metrics.MetricsCollector
}

// NewGatekeeper はGatekeeperを生成する。
// ドメインは小文字に正規化して保持する。
func NewGatekeeper(allowedDomains []string, collector metrics.MetricsCollector) *Gatekeeper {
	domains := make([]string, 0, len(allowedDomains))
	for _, d := range allowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	return &Gatekeeper{allowedDomains: domains, metrics: collector}
}

// Check はメールアドレスのドメインが許可リストに含まれるかを審査する。
// 拒否された場合はVALIDATION_ERRORを返す。大文字小文字は区別しない。
func (g *Gatekeeper) Check(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		g.metrics.RecordSignupDecision(false)
		return model.NewValidationError("Invalid email address")
	}

	domain := strings.ToLower(email[at+1:])
	for _, allowed := range g.allowedDomains {
		if domain == allowed {
			g.metrics.RecordSignupDecision(true)
			return nil
		}
	}

	g.metrics.RecordSignupDecision(false)
	return model.NewValidationError(
		fmt.Sprintf("Sign-ups from domain %s are not allowed", domain))
}
