package tcpserver

import (
	"errors"
	"net"
	"sync/atomic"
	"time"
)

// ConnContext 为每条TCP连接提供读/写循环与回调能力
type ConnContext struct {
	s      *Server
	c      net.Conn
	id     uint64
	writeC chan []byte
	closed int32
	onRead func([]byte)
	doneC  chan struct{}
}

func newConnContext(s *Server, c net.Conn) *ConnContext {
	return &ConnContext{
		s:      s,
		c:      c,
		id:     atomic.AddUint64(&s.nextConnID, 1),
		writeC: make(chan []byte, 128),
		doneC:  make(chan struct{}),
	}
}

// ID 返回连接ID（单进程唯一递增）
func (cc *ConnContext) ID() uint64 { return cc.id }

// RemoteAddr 返回远端地址
func (cc *ConnContext) RemoteAddr() net.Addr { return cc.c.RemoteAddr() }

// Server 返回所属网关
func (cc *ConnContext) Server() *Server { return cc.s }

// SetOnRead 安装读取回调（收到上行原始字节时触发）
// 回调收到的切片仅在回调期间有效，跨调用保存必须拷贝
func (cc *ConnContext) SetOnRead(h func([]byte)) { cc.onRead = h }

// Write 异步写入，受写队列与写超时影响
func (cc *ConnContext) Write(b []byte) error {
	if atomic.LoadInt32(&cc.closed) == 1 {
		return errors.New("connection closed")
	}
	// 复制一份，避免调用方复用底层切片
	dup := make([]byte, len(b))
	copy(dup, b)
	to := cc.s.cfg.WriteTimeout
	if to <= 0 {
		to = 5 * time.Second
	}
	select {
	case cc.writeC <- dup:
		return nil
	case <-time.After(to):
		return errors.New("write queue timeout")
	}
}

// Close 关闭连接与写队列
func (cc *ConnContext) Close() error {
	if !atomic.CompareAndSwapInt32(&cc.closed, 0, 1) {
		return nil
	}
	close(cc.writeC)
	return cc.c.Close()
}

// run 启动读/写循环，阻塞直至连接结束
func (cc *ConnContext) run() {
	defer cc.Close()
	if cc.s.cfg.ReadTimeout > 0 {
		_ = cc.c.SetReadDeadline(time.Now().Add(cc.s.cfg.ReadTimeout))
	}

	// 写循环
	doneW := make(chan struct{})
	go func() {
		defer close(doneW)
		for msg := range cc.writeC {
			if cc.s.cfg.WriteTimeout > 0 {
				_ = cc.c.SetWriteDeadline(time.Now().Add(cc.s.cfg.WriteTimeout))
			}
			_, _ = cc.c.Write(msg)
		}
	}()

	// 读循环
	buf := make([]byte, 4096)
	for {
		n, err := cc.c.Read(buf)
		if n > 0 {
			if cc.s.onRecvBytes != nil {
				cc.s.onRecvBytes(n)
			}
			if cc.onRead != nil {
				cc.onRead(buf[:n])
			}
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				select {
				case <-cc.s.stopC:
					// 网关停机，不再续期
				default:
					// 读超时，刷新deadline继续
					if cc.s.cfg.ReadTimeout > 0 {
						_ = cc.c.SetReadDeadline(time.Now().Add(cc.s.cfg.ReadTimeout))
						continue
					}
				}
			}
			break
		}
	}
	// 先关闭写队列再等写循环退出，否则写循环会阻塞在range上
	_ = cc.Close()
	<-doneW
	// 广播关闭
	select {
	case <-cc.doneC:
	default:
		close(cc.doneC)
	}
}

// Done 返回连接关闭通知通道
func (cc *ConnContext) Done() <-chan struct{} { return cc.doneC }
