package session

import (
	"testing"
	"time"
)

func TestManager_OnReading_IsOnline(t *testing.T) {
	m := New(2 * time.Second)
	now := time.Now()
	if m.IsOnline("scale-a", now) {
		t.Fatalf("expected offline initially")
	}
	m.OnReading("scale-a", now)
	if !m.IsOnline("scale-a", now) {
		t.Fatalf("expected online after reading")
	}
	if m.IsOnline("scale-b", now) {
		t.Fatalf("other scale should be offline")
	}
}

func TestManager_Timeout(t *testing.T) {
	m := New(500 * time.Millisecond)
	ts := time.Now()
	m.OnReading("x", ts)
	if !m.IsOnline("x", ts.Add(400*time.Millisecond)) {
		t.Fatalf("should still be online before timeout")
	}
	if m.IsOnline("x", ts.Add(600*time.Millisecond)) {
		t.Fatalf("should be offline after timeout")
	}
}

func TestManager_BindUnbind(t *testing.T) {
	m := New(time.Second)
	conn := struct{ id int }{1}
	m.Bind("x", conn)
	if c, ok := m.GetConn("x"); !ok || c != conn {
		t.Fatalf("bound conn not returned")
	}
	m.Unbind("x")
	if _, ok := m.GetConn("x"); ok {
		t.Fatalf("conn should be unbound")
	}
}

func TestManager_SnapshotAndCount(t *testing.T) {
	m := New(time.Second)
	now := time.Now()
	m.OnReading("a", now)
	m.OnReading("b", now.Add(-2*time.Second))
	snap := m.Snapshot(now)
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	if !snap["a"] || snap["b"] {
		t.Fatalf("unexpected online states: %v", snap)
	}
	if got := m.OnlineCount(now); got != 1 {
		t.Fatalf("expected 1 online, got %d", got)
	}
}
