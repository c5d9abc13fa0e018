package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taoyao-code/scale-server/internal/app"
	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
	"github.com/taoyao-code/scale-server/internal/device"
	"github.com/taoyao-code/scale-server/internal/health"
	"github.com/taoyao-code/scale-server/internal/session"
)

// Server HTTP 服务封装
type Server struct {
	srv *http.Server
}

// Deps 路由依赖
type Deps struct {
	MetricsPath    string
	MetricsHandler http.Handler
	Health         *health.Aggregator
	Devices        device.Lister
	Sessions       *session.Manager
	Latest         *app.LatestStore
}

// New 创建并配置 Gin + HTTP Server
func New(cfg cfgpkg.HTTPConfig, deps Deps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if deps.Health == nil || deps.Health.Ready(c.Request.Context()) {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	if deps.Health != nil {
		r.GET("/healthz/details", func(c *gin.Context) {
			report := deps.Health.Report(c.Request.Context())
			code := http.StatusOK
			if report.Status == health.StatusUnhealthy {
				code = http.StatusServiceUnavailable
			}
			c.JSON(code, report)
		})
	}

	metricsPath := deps.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if deps.MetricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(deps.MetricsHandler))
	}

	api := r.Group("/api/v1")
	if deps.Devices != nil {
		api.GET("/devices", func(c *gin.Context) {
			devices, err := deps.Devices.ListDevices(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"devices": devices})
		})
	}
	if deps.Sessions != nil && deps.Latest != nil {
		api.GET("/scales", func(c *gin.Context) {
			now := time.Now()
			online := deps.Sessions.Snapshot(now)
			ids := deps.Latest.ScaleIDs()
			// 有读数记录但会话表未见过的秤也要列出
			seen := make(map[string]bool, len(ids))
			for _, id := range ids {
				seen[id] = true
			}
			for id := range online {
				if !seen[id] {
					ids = append(ids, id)
				}
			}
			sort.Strings(ids)

			type scaleInfo struct {
				ScaleID string `json:"scaleId"`
				Online  bool   `json:"online"`
			}
			out := make([]scaleInfo, 0, len(ids))
			for _, id := range ids {
				out = append(out, scaleInfo{ScaleID: id, Online: online[id]})
			}
			c.JSON(http.StatusOK, gin.H{"scales": out})
		})
		api.GET("/scales/:id/reading", func(c *gin.Context) {
			lr, ok := deps.Latest.Get(c.Param("id"))
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no reading for scale"})
				return
			}
			c.JSON(http.StatusOK, lr)
		})
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{srv: srv}
}

// Handler 返回底层处理器（测试用）
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
