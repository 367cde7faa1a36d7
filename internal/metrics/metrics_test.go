package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// findMetricFamily は収集済みメトリクスから名前で検索するヘルパー。
func findMetricFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordHTTPStatus_IncrementsCounterWithLabel はHTTPステータスカウンタがラベル付きで増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounterWithLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	mf := findMetricFamily(t, reg, "photofolio_http_status_total")
	if mf == nil {
		t.Fatal("photofolio_http_status_total metric not found")
	}

	counts := map[string]float64{}
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "status_code" {
				counts[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}

	if counts["200"] != 2 {
		t.Errorf("status 200 count = %v, want 2", counts["200"])
	}
	if counts["404"] != 1 {
		t.Errorf("status 404 count = %v, want 1", counts["404"])
	}
}

// TestRecordLoginSuccessAndFailure はログインカウンタの増加を検証する。
func TestRecordLoginSuccessAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLoginSuccess()
	c.RecordLoginSuccess()
	c.RecordLoginFailure("not_allowed")
	c.RecordLoginFailure("state_mismatch")
	c.RecordLoginFailure("not_allowed")

	success := findMetricFamily(t, reg, "photofolio_login_success_total")
	if success == nil {
		t.Fatal("photofolio_login_success_total metric not found")
	}
	if val := success.GetMetric()[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("login_success_total = %v, want 2", val)
	}

	fail := findMetricFamily(t, reg, "photofolio_login_fail_total")
	if fail == nil {
		t.Fatal("photofolio_login_fail_total metric not found")
	}
	counts := map[string]float64{}
	for _, m := range fail.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "reason" {
				counts[l.GetValue()] = m.GetCounter().GetValue()
			}
		}
	}
	if counts["not_allowed"] != 2 {
		t.Errorf("login_fail_total{reason=not_allowed} = %v, want 2", counts["not_allowed"])
	}
	if counts["state_mismatch"] != 1 {
		t.Errorf("login_fail_total{reason=state_mismatch} = %v, want 1", counts["state_mismatch"])
	}
}

// TestRecordPhotoUpload_IncrementsCountAndBytes はアップロード回数とバイト数の両方が増加することを検証する。
func TestRecordPhotoUpload_IncrementsCountAndBytes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPhotoUpload(1024)
	c.RecordPhotoUpload(2048)

	uploads := findMetricFamily(t, reg, "photofolio_photo_uploads_total")
	if uploads == nil {
		t.Fatal("photofolio_photo_uploads_total metric not found")
	}
	if val := uploads.GetMetric()[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("photo_uploads_total = %v, want 2", val)
	}

	bytesTotal := findMetricFamily(t, reg, "photofolio_upload_bytes_total")
	if bytesTotal == nil {
		t.Fatal("photofolio_upload_bytes_total metric not found")
	}
	if val := bytesTotal.GetMetric()[0].GetCounter().GetValue(); val != 3072 {
		t.Errorf("upload_bytes_total = %v, want 3072", val)
	}
}

// TestRecordUserProvisioned_IncrementsCounter はユーザー作成カウンタの増加を検証する。
func TestRecordUserProvisioned_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUserProvisioned()

	mf := findMetricFamily(t, reg, "photofolio_users_provisioned_total")
	if mf == nil {
		t.Fatal("photofolio_users_provisioned_total metric not found")
	}
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 1 {
		t.Errorf("users_provisioned_total = %v, want 1", val)
	}
}

// TestRecordContactMail_IncrementsCounter は問い合わせメールカウンタの増加を検証する。
func TestRecordContactMail_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordContactMail()
	c.RecordContactMail()
	c.RecordContactMail()

	mf := findMetricFamily(t, reg, "photofolio_contact_mails_total")
	if mf == nil {
		t.Fatal("photofolio_contact_mails_total metric not found")
	}
	if val := mf.GetMetric()[0].GetCounter().GetValue(); val != 3 {
		t.Errorf("contact_mails_total = %v, want 3", val)
	}
}

// TestRecordRequestDuration_ObservesHistogram はリクエスト処理時間がヒストグラムに記録されることを検証する。
func TestRecordRequestDuration_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestDuration(150 * time.Millisecond)
	c.RecordRequestDuration(300 * time.Millisecond)

	mf := findMetricFamily(t, reg, "photofolio_request_duration_seconds")
	if mf == nil {
		t.Fatal("photofolio_request_duration_seconds metric not found")
	}
	h := mf.GetMetric()[0].GetHistogram()
	if h.GetSampleCount() != 2 {
		t.Errorf("sample count = %d, want 2", h.GetSampleCount())
	}
	want := 0.15 + 0.3
	if diff := h.GetSampleSum() - want; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("sample sum = %v, want %v", h.GetSampleSum(), want)
	}
}
