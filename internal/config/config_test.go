package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.App.Name != "scale-server" {
		t.Errorf("unexpected app name %q", cfg.App.Name)
	}
	if cfg.TCP.Addr != ":7010" {
		t.Errorf("unexpected tcp addr %q", cfg.TCP.Addr)
	}
	if cfg.Session.OfflineTimeout != 30*time.Second {
		t.Errorf("unexpected offline timeout %v", cfg.Session.OfflineTimeout)
	}
	if cfg.Sink.Redis.Stream != "scale:readings" {
		t.Errorf("unexpected stream %q", cfg.Sink.Redis.Stream)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCALE_TCP_ADDR", ":9999")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.TCP.Addr != ":9999" {
		t.Errorf("env override ignored, got %q", cfg.TCP.Addr)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	content := []byte("app:\n  name: weigh-gw\ntcp:\n  maxConnections: 7\ndevices:\n  - name: dock-9\n    vendorId: 2338\n    productId: 32771\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.App.Name != "weigh-gw" {
		t.Errorf("file value ignored, got %q", cfg.App.Name)
	}
	if cfg.TCP.MaxConnections != 7 {
		t.Errorf("unexpected maxConnections %d", cfg.TCP.MaxConnections)
	}
	// 未出现在文件中的键保持默认
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("default lost, got %q", cfg.HTTP.Addr)
	}
	if len(cfg.Devices) != 1 || cfg.Devices[0].VendorID != 2338 {
		t.Errorf("devices not parsed: %v", cfg.Devices)
	}
}
