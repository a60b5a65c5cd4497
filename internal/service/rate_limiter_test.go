package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestMemoryRateLimiter(t *testing.T) {
	t.Run("limite por clave", func(t *testing.T) {
		l := NewMemoryRateLimiter(time.Minute, 2)
		if !l.Allow("s1") || !l.Allow("s1") {
			t.Fatalf("expected the first two hits to pass")
		}
		if l.Allow("s1") {
			t.Fatalf("expected third hit to be denied")
		}
		if !l.Allow("s2") {
			t.Fatalf("keys must not share budget")
		}
	})

	t.Run("ventana deslizante", func(t *testing.T) {
		now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
		l := NewMemoryRateLimiter(time.Minute, 1).(*memoryRateLimiter)
		l.now = func() time.Time { return now }
		if !l.Allow("s1") {
			t.Fatalf("expected first hit")
		}
		if l.Allow("s1") {
			t.Fatalf("expected deny inside the window")
		}
		now = now.Add(61 * time.Second)
		if !l.Allow("s1") {
			t.Fatalf("expected allow once the window passed")
		}
	})
}

func TestRedisRateLimiterAllow(t *testing.T) {
	t.Run("receptor nil falla abierto", func(t *testing.T) {
		var l *redisRateLimiter
		if !l.Allow("session-1") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("clave vacia", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "relo:rl:"}
		if l.Allow("   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("dentro del maximo", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "relo:rl:"}
		if !l.Allow(" Session-1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "relo:rl:session-1" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != redisAllowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("excede el maximo", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "relo:rl:"}
		if l.Allow("session-1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis caido falla abierto", func(t *testing.T) {
		l := &redisRateLimiter{client: &mockRedisEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3, prefix: "relo:rl:"}
		if !l.Allow("session-1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
