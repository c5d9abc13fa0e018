package app

import (
	"sync"
	"time"

	"github.com/taoyao-code/scale-server/internal/protocol/ws16"
)

// LatestReading 某台秤的最近一次读数及到达时间
type LatestReading struct {
	Reading    *ws16.Reading `json:"reading"`
	ReceivedAt time.Time     `json:"receivedAt"`
}

// LatestStore 每台秤的最近读数缓存，供查询接口使用
type LatestStore struct {
	mu      sync.RWMutex
	byScale map[string]LatestReading
}

// NewLatestStore 创建缓存
func NewLatestStore() *LatestStore {
	return &LatestStore{byScale: make(map[string]LatestReading)}
}

// Put 记录一次读数
func (s *LatestStore) Put(scaleID string, r *ws16.Reading, at time.Time) {
	s.mu.Lock()
	s.byScale[scaleID] = LatestReading{Reading: r, ReceivedAt: at}
	s.mu.Unlock()
}

// Get 返回最近读数
func (s *LatestStore) Get(scaleID string) (LatestReading, bool) {
	s.mu.RLock()
	lr, ok := s.byScale[scaleID]
	s.mu.RUnlock()
	return lr, ok
}

// ScaleIDs 返回已知秤ID列表
func (s *LatestStore) ScaleIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.byScale))
	for id := range s.byScale {
		ids = append(ids, id)
	}
	return ids
}
