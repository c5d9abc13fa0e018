package tcpserver

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
)

// Server 串口桥接TCP网关：每条连接对应一台秤的字节流
type Server struct {
	cfg        cfgpkg.TCPConfig
	ln         net.Listener
	wg         sync.WaitGroup
	stopC      chan struct{}
	limiter    *ConnectionLimiter
	logger     *zap.Logger
	nextConnID uint64

	onConn func(*ConnContext)
	// 可选指标回调
	onAccept    func()
	onRecvBytes func(n int)
}

// New 创建TCP网关
func New(cfg cfgpkg.TCPConfig, logger *zap.Logger) *Server {
	return &Server{
		cfg:     cfg,
		stopC:   make(chan struct{}),
		limiter: NewConnectionLimiter(cfg.MaxConnections, cfg.AcquireTimeout),
		logger:  logger,
	}
}

// OnConn 设置新连接回调（协议绑定在回调里完成）
func (s *Server) OnConn(h func(*ConnContext)) { s.onConn = h }

// SetMetricsCallbacks 设置指标回调
func (s *Server) SetMetricsCallbacks(onAccept func(), onRecvBytes func(int)) {
	s.onAccept, s.onRecvBytes = onAccept, onRecvBytes
}

// Addr 返回监听地址（Start之后有效）
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// GetLogger 返回网关日志器
func (s *Server) GetLogger() *zap.Logger { return s.logger }

// ActiveConnections 当前活跃连接数
func (s *Server) ActiveConnections() int { return s.limiter.Current() }

// MaxConnections 连接数上限
func (s *Server) MaxConnections() int { return s.limiter.maxConn }

// Start 监听并接受连接（非阻塞，内部goroutine）
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				select {
				case <-s.stopC:
					return
				default:
				}
				// 短暂错误等待后重试
				time.Sleep(50 * time.Millisecond)
				continue
			}
			if err := s.limiter.Acquire(context.Background()); err != nil {
				if s.logger != nil {
					s.logger.Warn("connection rejected by limiter",
						zap.String("remote_addr", conn.RemoteAddr().String()),
						zap.Error(err))
				}
				_ = conn.Close()
				continue
			}
			if s.onAccept != nil {
				s.onAccept()
			}

			cc := newConnContext(s, conn)
			if s.onConn != nil {
				s.onConn(cc)
			}

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer s.limiter.Release()
				cc.run()
			}()
		}
	}()
	return nil
}

// Shutdown 优雅关闭监听并等待连接退出
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stopC)
	if s.ln != nil {
		_ = s.ln.Close()
	}
	ch := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(ch)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return nil
	}
}
