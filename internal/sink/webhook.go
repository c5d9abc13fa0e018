package sink

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	cfgpkg "github.com/taoyao-code/scale-server/internal/config"
)

// WebhookSink 将事件POST到第三方回调地址
// 客户端侧限速（token bucket），5xx与网络错误按退避序列重试
type WebhookSink struct {
	client  *http.Client
	url     string
	apiKey  string
	retries int
	backoff []time.Duration
	limiter *rate.Limiter
}

// NewWebhookSink 创建Webhook出口
func NewWebhookSink(client *http.Client, cfg cfgpkg.WebhookSinkConfig) *WebhookSink {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 20
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(rps)
	}
	return &WebhookSink{
		client:  client,
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		retries: retries,
		backoff: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond, time.Second, 2 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name 返回出口名
func (s *WebhookSink) Name() string { return "webhook" }

// Publish 序列化并投递事件，2xx视为成功，4xx不重试
func (s *WebhookSink) Publish(ctx context.Context, e *Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	digest := sha256.Sum256(body)
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", s.apiKey)
		req.Header.Set("X-Body-Sha256", hex.EncodeToString(digest[:]))

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			code := resp.StatusCode
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if code >= 200 && code < 300 {
				return nil
			}
			lastErr = fmt.Errorf("webhook status %d", code)
			// 非5xx不重试
			if code < 500 {
				return lastErr
			}
		}
		if attempt == s.retries {
			break
		}
		wait := s.backoff[min(attempt, len(s.backoff)-1)]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}
