package health

import (
	"context"
	"time"

	"github.com/taoyao-code/scale-server/internal/tcpserver"
)

// TCPChecker 秤桥接网关健康检查器
type TCPChecker struct {
	server *tcpserver.Server
}

// NewTCPChecker 创建TCP健康检查器
func NewTCPChecker(server *tcpserver.Server) *TCPChecker {
	return &TCPChecker{server: server}
}

// Name 返回检查器名称
func (c *TCPChecker) Name() string { return "tcp" }

// Check 基于连接占用率判断网关状态
func (c *TCPChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	active := c.server.ActiveConnections()
	max := c.server.MaxConnections()
	utilization := 0.0
	if max > 0 {
		utilization = float64(active) / float64(max)
	}

	status := StatusHealthy
	message := "ok"
	if utilization > 0.8 {
		status = StatusDegraded
		message = "high connection usage"
	}
	if utilization > 0.95 {
		status = StatusUnhealthy
		message = "connection limit near exhausted"
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: map[string]interface{}{
			"active_connections": active,
			"max_connections":    max,
			"utilization":        utilization,
		},
		Latency: time.Since(start),
	}
}
