package session

import (
	"sync"
	"time"
)

// Manager 会话管理：记录每台秤最近一次有效读数时间，判断是否在线
// WS16 协议没有显式心跳，任何通过校验的读数即视作心跳
type Manager struct {
	mu       sync.RWMutex
	lastSeen map[string]time.Time // scaleID -> last seen
	timeout  time.Duration
	conns    map[string]interface{}
}

// New 创建会话管理器
func New(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Manager{lastSeen: make(map[string]time.Time), timeout: timeout, conns: make(map[string]interface{})}
}

// OnReading 更新秤的最近读数时间
func (m *Manager) OnReading(scaleID string, t time.Time) {
	m.mu.Lock()
	m.lastSeen[scaleID] = t
	m.mu.Unlock()
}

// Bind 绑定秤ID到连接对象（opaque），重复绑定将覆盖
func (m *Manager) Bind(scaleID string, conn interface{}) {
	m.mu.Lock()
	m.conns[scaleID] = conn
	m.mu.Unlock()
}

// Unbind 解除绑定
func (m *Manager) Unbind(scaleID string) {
	m.mu.Lock()
	delete(m.conns, scaleID)
	m.mu.Unlock()
}

// GetConn 返回绑定的连接对象
func (m *Manager) GetConn(scaleID string) (interface{}, bool) {
	m.mu.RLock()
	c, ok := m.conns[scaleID]
	m.mu.RUnlock()
	return c, ok
}

// IsOnline 判断秤是否在线
func (m *Manager) IsOnline(scaleID string, now time.Time) bool {
	m.mu.RLock()
	ts, ok := m.lastSeen[scaleID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return now.Sub(ts) <= m.timeout
}

// OnlineCount 返回当前在线秤数量
func (m *Manager) OnlineCount(now time.Time) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, ts := range m.lastSeen {
		if now.Sub(ts) <= m.timeout {
			count++
		}
	}
	return count
}

// Snapshot 返回所有已知秤及其在线状态（供查询接口）
func (m *Manager) Snapshot(now time.Time) map[string]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.lastSeen))
	for id, ts := range m.lastSeen {
		out[id] = now.Sub(ts) <= m.timeout
	}
	return out
}
