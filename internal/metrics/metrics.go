// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層や通知ワーカーから利用する。
type MetricsCollector interface {
	RecordAuditWriteFailure(action string)
	RecordNotificationSent(kind string)
	RecordNotificationFailure(kind string)
	RecordSignupDecision(allowed bool)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	auditWriteFail   *prometheus.CounterVec
	notificationSent *prometheus.CounterVec
	notificationFail *prometheus.CounterVec
	signupDecision   *prometheus.CounterVec
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		auditWriteFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_audit_write_fail_total",
			Help: "監査レコード書き込み失敗の合計数",
		}, []string{"action"}),
		notificationSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_notification_sent_total",
			Help: "送信された通知メールの合計数",
		}, []string{"kind"}),
		notificationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_notification_fail_total",
			Help: "通知メール送信失敗の合計数",
		}, []string{"kind"}),
		signupDecision: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_signup_decision_total",
			Help: "サインアップ審査の結果別の合計数",
		}, []string{"decision"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskdeck_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskdeck_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.auditWriteFail,
		c.notificationSent,
		c.notificationFail,
		c.signupDecision,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordAuditWriteFailure は監査レコード書き込み失敗を記録する。
func (c *Collector) RecordAuditWriteFailure(action string) {
	c.auditWriteFail.WithLabelValues(action).Inc()
}

// RecordNotificationSent は通知メール送信成功を記録する。
func (c *Collector) RecordNotificationSent(kind string) {
	c.notificationSent.WithLabelValues(kind).Inc()
}

// RecordNotificationFailure は通知メール送信失敗を記録する。
func (c *Collector) RecordNotificationFailure(kind string) {
	c.notificationFail.WithLabelValues(kind).Inc()
}

// RecordSignupDecision はサインアップ審査の結果を記録する。
func (c *Collector) RecordSignupDecision(allowed bool) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	c.signupDecision.WithLabelValues(decision).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
