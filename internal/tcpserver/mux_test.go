package tcpserver

import (
	"net"
	"testing"
	"time"

	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
)

type fakeAdapter struct {
	magic byte
	got   []byte
}

func (f *fakeAdapter) Sniff(prefix []byte) bool {
	return len(prefix) > 0 && prefix[0] == f.magic
}

func (f *fakeAdapter) ProcessBytes(p []byte) error {
	f.got = append(f.got, p...)
	return nil
}

func testConn(t *testing.T) (*ConnContext, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	s := New(cfgpkg.TCPConfig{ReadTimeout: time.Second, WriteTimeout: time.Second}, nil)
	cc := newConnContext(s, server)
	t.Cleanup(func() {
		_ = client.Close()
		_ = cc.Close()
	})
	return cc, client
}

func TestMux_BindsMatchingAdapter(t *testing.T) {
	cc, client := testConn(t)
	a := &fakeAdapter{magic: 0x01}
	b := &fakeAdapter{magic: 0xFC}
	NewMux(a, b).BindToConn(cc)
	go cc.run()

	if _, err := client.Write([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := client.Write([]byte{0x04}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	_ = client.Close()
	<-cc.Done()

	if string(a.got) != "\x01\x02\x03\x04" {
		t.Fatalf("adapter a got % X", a.got)
	}
	if len(b.got) != 0 {
		t.Fatalf("adapter b should receive nothing, got % X", b.got)
	}
}

// 首包未识别：广播给全部适配器容错，后续包仍可完成绑定
func TestMux_UnidentifiedFirstPacket(t *testing.T) {
	cc, client := testConn(t)
	a := &fakeAdapter{magic: 0x01}
	NewMux(a).BindToConn(cc)
	go cc.run()

	if _, err := client.Write([]byte{0xEE, 0xFF}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := client.Write([]byte{0x01, 0x02}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	_ = client.Close()
	<-cc.Done()

	if string(a.got) != "\xee\xff\x01\x02" {
		t.Fatalf("adapter got % X", a.got)
	}
}
