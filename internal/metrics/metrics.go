// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する。
type Collector struct {
	httpRequests    *prometheus.CounterVec
	requestDuration prometheus.Histogram
	videosUploaded  prometheus.Counter
	uploadFailures  prometheus.Counter
	commentsCreated prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vidshare_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vidshare_http_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		videosUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vidshare_videos_uploaded_total",
			Help: "アップロードに成功した動画の合計数",
		}),
		uploadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vidshare_upload_failures_total",
			Help: "ブロブストアへのアップロード失敗の合計数",
		}),
		commentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vidshare_comments_created_total",
			Help: "作成されたコメントの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.requestDuration,
		c.videosUploaded,
		c.uploadFailures,
		c.commentsCreated,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

// RecordVideoUploaded は動画アップロード成功を記録する。
func (c *Collector) RecordVideoUploaded() {
	c.videosUploaded.Inc()
}

// RecordUploadFailure はアップロード失敗を記録する。
func (c *Collector) RecordUploadFailure() {
	c.uploadFailures.Inc()
}

// RecordCommentCreated はコメント作成を記録する。
func (c *Collector) RecordCommentCreated() {
	c.commentsCreated.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
