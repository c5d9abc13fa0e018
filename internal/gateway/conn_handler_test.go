package gateway

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/taoyao-code/scale-server/internal/app"
	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
	"github.com/taoyao-code/scale-server/internal/protocol/ws16"
	"github.com/taoyao-code/scale-server/internal/session"
	"github.com/taoyao-code/scale-server/internal/sink"
	"github.com/taoyao-code/scale-server/internal/tcpserver"
)

type captureSink struct {
	mu     sync.Mutex
	events []*sink.Event
}

func (c *captureSink) Name() string { return "capture" }
func (c *captureSink) Publish(ctx context.Context, e *sink.Event) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	return nil
}

func (c *captureSink) byType(t sink.EventType) []*sink.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*sink.Event
	for _, e := range c.events {
		if e.EventType == t {
			out = append(out, e)
		}
	}
	return out
}

// 端到端：TCP字节流（含噪声与坏帧）-> 组帧解码 -> 会话/缓存/出口
func TestConnHandler_EndToEnd(t *testing.T) {
	sess := session.New(5 * time.Second)
	latest := app.NewLatestStore()
	rec := &captureSink{}

	srv := tcpserver.New(cfgpkg.TCPConfig{
		Addr:           "127.0.0.1:0",
		ReadTimeout:    2 * time.Second,
		WriteTimeout:   time.Second,
		MaxConnections: 4,
		AcquireTimeout: time.Second,
	}, nil)
	srv.OnConn(NewConnHandler(sess, latest, rec, nil, nil))
	if err := srv.Start(); err != nil {
		t.Fatalf("server start: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	conn, err := net.Dial("tcp", srv.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	good, _ := ws16.BuildFrame('S', false, []byte("001000"), []byte("kg"), 0x00)
	bad := append([]byte{}, good...)
	bad[12]++ // BCC损坏

	// 噪声 + 好帧（拆成两半发送）+ 坏帧
	if _, err := conn.Write(append([]byte{0xAA, 0xBB}, good[:9]...)); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := conn.Write(good[9:]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := conn.Write(bad); err != nil {
		t.Fatalf("write: %v", err)
	}

	scaleID := conn.LocalAddr().String()
	deadline := time.Now().Add(2 * time.Second)
	for {
		if lr, ok := latest.Get(scaleID); ok {
			if lr.Reading.Weight != "001000" || lr.Reading.Units != "kg" {
				t.Fatalf("unexpected reading %+v", lr.Reading)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("reading never reached latest store")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !sess.IsOnline(scaleID, time.Now()) {
		t.Fatal("scale should be online after valid reading")
	}
	if got := rec.byType(sink.EventReadingCaptured); len(got) != 1 {
		t.Fatalf("expected 1 reading event, got %d", len(got))
	}

	// 断开后应下发离线事件并解除绑定
	_ = conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for {
		if len(rec.byType(sink.EventScaleOffline)) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("offline event never published")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := sess.GetConn(scaleID); ok {
		t.Fatal("conn should be unbound after close")
	}
}
