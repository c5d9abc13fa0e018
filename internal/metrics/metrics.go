package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry 创建自定义 Prometheus Registry，注册常用采集器
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler 返回 Prometheus 指标 HTTP 处理器
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// AppMetrics 业务指标
type AppMetrics struct {
	TCPAccepted      prometheus.Counter
	TCPBytesReceived prometheus.Counter
	FrameTotal       *prometheus.CounterVec // labels: result=ok|error
	DecodeErrorTotal *prometheus.CounterVec // labels: reason
	ReadingTotal     prometheus.Counter
	OnlineGauge      prometheus.Gauge // 当前在线秤数
	SinkPushTotal    *prometheus.CounterVec // labels: sink, result=ok|error
}

// NewAppMetrics 注册并返回业务指标
func NewAppMetrics(reg *prometheus.Registry) *AppMetrics {
	m := &AppMetrics{
		TCPAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcp_accept_total",
			Help: "Total accepted TCP connections.",
		}),
		TCPBytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tcp_bytes_received_total",
			Help: "Total bytes received over TCP.",
		}),
		FrameTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ws16_frame_total",
			Help: "WS16 candidate frame decode attempts.",
		}, []string{"result"}),
		DecodeErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ws16_decode_error_total",
			Help: "WS16 rejected frames by reason.",
		}, []string{"reason"}),
		ReadingTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reading_total",
			Help: "Total validated weight readings.",
		}),
		OnlineGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "session_online_count",
			Help: "Current number of online scales.",
		}),
		SinkPushTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sink_push_total",
			Help: "Reading events published to sinks.",
		}, []string{"sink", "result"}),
	}
	reg.MustRegister(m.TCPAccepted, m.TCPBytesReceived, m.FrameTotal, m.DecodeErrorTotal, m.ReadingTotal, m.OnlineGauge, m.SinkPushTotal)
	return m
}
