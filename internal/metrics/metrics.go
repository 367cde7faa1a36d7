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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordUserProvisioned()
	RecordPhotoUpload(sizeBytes int64)
	RecordContactMail()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus       *prometheus.CounterVec
	requestDuration  prometheus.Histogram
	loginSuccess     prometheus.Counter
	loginFail        *prometheus.CounterVec
	usersProvisioned prometheus.Counter
	photoUploads     prometheus.Counter
	uploadBytes      prometheus.Counter
	contactMails     prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photofolio_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "photofolio_request_duration_seconds",
			Help:    "APIリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photofolio_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "photofolio_login_fail_total",
			Help: "ログイン失敗の理由別合計数",
		}, []string{"reason"}),
		usersProvisioned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photofolio_users_provisioned_total",
			Help: "初回ログインで作成されたユーザーの合計数",
		}),
		photoUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photofolio_photo_uploads_total",
			Help: "写真アップロード成功の合計数",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photofolio_upload_bytes_total",
			Help: "アップロードされた写真の合計バイト数",
		}),
		contactMails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "photofolio_contact_mails_total",
			Help: "リレーされた問い合わせメールの合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.loginSuccess,
		c.loginFail,
		c.usersProvisioned,
		c.photoUploads,
		c.uploadBytes,
		c.contactMails,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を理由別に記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

// RecordUserProvisioned は初回ログインでのユーザー作成を記録する。
func (c *Collector) RecordUserProvisioned() {
	c.usersProvisioned.Inc()
}

// RecordPhotoUpload は写真アップロード成功とサイズを記録する。
func (c *Collector) RecordPhotoUpload(sizeBytes int64) {
	c.photoUploads.Inc()
	c.uploadBytes.Add(float64(sizeBytes))
}

// RecordContactMail は問い合わせメールのリレーを記録する。
func (c *Collector) RecordContactMail() {
	c.contactMails.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
