package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/scale-server/internal/app"
	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
	"github.com/taoyao-code/scale-server/internal/device"
	"github.com/taoyao-code/scale-server/internal/gateway"
	"github.com/taoyao-code/scale-server/internal/health"
	"github.com/taoyao-code/scale-server/internal/httpserver"
	"github.com/taoyao-code/scale-server/internal/logging"
	"github.com/taoyao-code/scale-server/internal/metrics"
	"github.com/taoyao-code/scale-server/internal/session"
	"github.com/taoyao-code/scale-server/internal/sink"
	redisstorage "github.com/taoyao-code/scale-server/internal/storage/redis"
	"github.com/taoyao-code/scale-server/internal/tcpserver"
)

func main() {
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标
	reg := metrics.NewRegistry()
	appm := metrics.NewAppMetrics(reg)

	// 4) Redis（可选，供出口与健康检查）
	var redisClient *redisstorage.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisstorage.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal("redis init error", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// 5) 读数出口
	var sinks []sink.Sink
	if cfg.Sink.Redis.Enabled {
		if redisClient == nil {
			log.Fatal("sink.redis enabled but redis.enabled=false")
		}
		sinks = append(sinks, sink.NewRedisSink(redisClient, cfg.Sink.Redis))
		log.Info("redis sink enabled", zap.String("stream", cfg.Sink.Redis.Stream))
	}
	if cfg.Sink.Webhook.Enabled && cfg.Sink.Webhook.URL != "" {
		sinks = append(sinks, sink.NewWebhookSink(nil, cfg.Sink.Webhook))
		log.Info("webhook sink enabled", zap.String("url", cfg.Sink.Webhook.URL))
	}
	var out sink.Sink = sink.Nop{}
	if len(sinks) > 0 {
		out = sink.NewMulti(appm, log.With(zap.String("component", "sink")), sinks...)
	}

	// 6) 会话与最近读数缓存
	sess := session.New(cfg.Session.OfflineTimeout)
	latest := app.NewLatestStore()

	// 7) TCP 网关
	tcpSrv := tcpserver.New(cfg.TCP, log.With(zap.String("component", "tcp")))
	tcpSrv.SetMetricsCallbacks(
		func() { appm.TCPAccepted.Inc() },
		func(n int) { appm.TCPBytesReceived.Add(float64(n)) },
	)
	tcpSrv.OnConn(gateway.NewConnHandler(sess, latest, out, appm, log.With(zap.String("component", "gateway"))))

	// 8) 健康检查
	agg := health.NewAggregator(health.NewTCPChecker(tcpSrv))
	if redisClient != nil {
		agg.AddChecker(health.NewRedisChecker(redisClient))
	}

	// 9) HTTP 服务
	devices := make([]device.Descriptor, 0, len(cfg.Devices))
	for _, d := range cfg.Devices {
		devices = append(devices, device.Descriptor{Name: d.Name, VendorID: d.VendorID, ProductID: d.ProductID})
	}
	var metricsHandler = metrics.Handler(reg)
	if !cfg.Metrics.Enable {
		metricsHandler = nil
	}
	httpSrv := httpserver.New(cfg.HTTP, httpserver.Deps{
		MetricsPath:    cfg.Metrics.Path,
		MetricsHandler: metricsHandler,
		Health:         agg,
		Devices:        device.NewStaticLister(devices),
		Sessions:       sess,
		Latest:         latest,
	})

	// 并行启动
	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()
	if err := tcpSrv.Start(); err != nil {
		log.Fatal("tcp server start error", zap.Error(err))
	}
	log.Info("scale-server started",
		zap.String("tcp_addr", cfg.TCP.Addr),
		zap.String("http_addr", cfg.HTTP.Addr))

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	_ = tcpSrv.Shutdown(ctx)
	log.Info("scale-server stopped")
}
