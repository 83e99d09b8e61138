package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labelValue string) float64 {
	t.Helper()
	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue == "" || m.GetLabel()[0].GetValue() == labelValue {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordAuditWriteFailure_IncrementsCounter は監査書き込み失敗カウンタが増加することを検証する。
func TestRecordAuditWriteFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuditWriteFailure("CREATE")
	c.RecordAuditWriteFailure("CREATE")

	if val := counterValue(t, reg, "taskdeck_audit_write_fail_total", "CREATE"); val != 2 {
		t.Errorf("audit_write_fail_total{action=CREATE} = %v, want 2", val)
	}
}

// TestRecordNotification_SentAndFailure は通知カウンタが種別ラベル付きで増加することを検証する。
func TestRecordNotification_SentAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNotificationSent("new_task")
	c.RecordNotificationSent("status_update")
	c.RecordNotificationSent("status_update")
	c.RecordNotificationFailure("new_task")

	if val := counterValue(t, reg, "taskdeck_notification_sent_total", "status_update"); val != 2 {
		t.Errorf("notification_sent_total{kind=status_update} = %v, want 2", val)
	}
	if val := counterValue(t, reg, "taskdeck_notification_sent_total", "new_task"); val != 1 {
		t.Errorf("notification_sent_total{kind=new_task} = %v, want 1", val)
	}
	if val := counterValue(t, reg, "taskdeck_notification_fail_total", "new_task"); val != 1 {
		t.Errorf("notification_fail_total{kind=new_task} = %v, want 1", val)
	}
}

// TestRecordSignupDecision_LabelsByOutcome はサインアップ審査カウンタが結果別に増加することを検証する。
func TestRecordSignupDecision_LabelsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignupDecision(true)
	c.RecordSignupDecision(true)
	c.RecordSignupDecision(false)

	if val := counterValue(t, reg, "taskdeck_signup_decision_total", "allowed"); val != 2 {
		t.Errorf("signup_decision_total{decision=allowed} = %v, want 2", val)
	}
	if val := counterValue(t, reg, "taskdeck_signup_decision_total", "denied"); val != 1 {
		t.Errorf("signup_decision_total{decision=denied} = %v, want 1", val)
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if val := counterValue(t, reg, "taskdeck_http_status_total", "200"); val != 2 {
		t.Errorf("http_status_total{status_code=200} = %v, want 2", val)
	}
	if val := counterValue(t, reg, "taskdeck_http_status_total", "404"); val != 1 {
		t.Errorf("http_status_total{status_code=404} = %v, want 1", val)
	}
}

// TestRecordRequestLatency_ObservesHistogram はレイテンシのヒストグラムに値が記録されることを検証する。
func TestRecordRequestLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(100 * time.Millisecond)
	c.RecordRequestLatency(2 * time.Second)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "taskdeck_request_latency_seconds" {
			found = true
			h := mf.GetMetric()[0].GetHistogram()
			if h.GetSampleCount() != 2 {
				t.Errorf("sample_count = %d, want 2", h.GetSampleCount())
			}
			// 合計は0.1 + 2.0 = 2.1秒
			if h.GetSampleSum() < 2.0 || h.GetSampleSum() > 2.2 {
				t.Errorf("sample_sum = %v, want ~2.1", h.GetSampleSum())
			}
		}
	}
	if !found {
		t.Error("taskdeck_request_latency_seconds metric not found")
	}
}

// TestMetricsHandler_ReturnsPrometheusFormat は/metricsエンドポイントがPrometheus形式で返すことを検証する。
func TestMetricsHandler_ReturnsPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuditWriteFailure("UPDATE")
	c.RecordNotificationSent("new_task")
	c.RecordSignupDecision(false)
	c.RecordHTTPStatus(200)
	c.RecordRequestLatency(500 * time.Millisecond)

	handler := Handler(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	expectedMetrics := []string{
		"taskdeck_audit_write_fail_total",
		"taskdeck_notification_sent_total",
		"taskdeck_signup_decision_total",
		"taskdeck_http_status_total",
		"taskdeck_request_latency_seconds",
	}

	for _, metric := range expectedMetrics {
		if !strings.Contains(bodyStr, metric) {
			t.Errorf("response body does not contain %q", metric)
		}
	}
}

// TestCollector_ImplementsMetricsCollectorInterface はCollectorがMetricsCollectorインターフェースを実装することを検証する。
func TestCollector_ImplementsMetricsCollectorInterface(t *testing.T) {
	reg := prometheus.NewRegistry()
	var _ MetricsCollector = NewCollector(reg)
}
