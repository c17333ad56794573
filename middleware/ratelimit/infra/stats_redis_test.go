package infra

import (
	"context"
	"testing"
	"time"

	"frontdoor/middleware/ratelimit/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStatsStore_RecordsTotalAndEndpoint(t *testing.T) {
	mr, rdb := newTestRedis(t)

	s := NewRedisStatsStore(rdb, WithStatsPrefix("test:stats"), WithStatsBucket("none"))

	ctx := context.Background()
	evs := []domain.StatsEvent{
		{Key: "10.0.0.1", Allowed: true, Endpoint: "http", Method: "GET", Path: "/"},
		{Key: "10.0.0.1", Allowed: false, Endpoint: "http", Method: "GET", Path: "/"},
		{Key: "10.0.0.2", Allowed: true, Endpoint: "https", Method: "GET", Path: "/"},
	}
	for _, ev := range evs {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	if got := mr.HGet("test:stats:total", "allowed"); got != "2" {
		t.Fatalf("expected total allowed=2, got %q", got)
	}
	if got := mr.HGet("test:stats:total", "denied"); got != "1" {
		t.Fatalf("expected total denied=1, got %q", got)
	}
	if got := mr.HGet("test:stats:endpoint:http", "denied"); got != "1" {
		t.Fatalf("expected http denied=1, got %q", got)
	}
	if got := mr.HGet("test:stats:endpoint:https", "allowed"); got != "1" {
		t.Fatalf("expected https allowed=1, got %q", got)
	}
	if got := mr.HGet("test:stats:route", "GET /:allowed"); got != "2" {
		t.Fatalf("expected route allowed=2, got %q", got)
	}
}

func TestRedisStatsStore_TracksKeysWithTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)

	s := NewRedisStatsStore(rdb,
		WithStatsPrefix("test:stats"),
		WithStatsBucket("none"),
		WithStatsTrackKeys(true),
		WithStatsTTL(1*time.Hour),
	)

	ev := domain.StatsEvent{Key: "10.0.0.1", Allowed: false, Endpoint: "http", Method: "GET", Path: "/"}
	if err := s.Record(context.Background(), ev); err != nil {
		t.Fatalf("record: %v", err)
	}

	if got := mr.HGet("test:stats:key:10.0.0.1", "denied"); got != "1" {
		t.Fatalf("expected per-key denied=1, got %q", got)
	}
	if ttl := mr.TTL("test:stats:key:10.0.0.1"); ttl <= 0 {
		t.Fatalf("expected per-key counter to carry a TTL, got %s", ttl)
	}
}

func TestRedisStatsStore_NilClientIsNoop(t *testing.T) {
	var s *RedisStatsStore
	if err := s.Record(context.Background(), domain.StatsEvent{}); err != nil {
		t.Fatalf("expected nil store to be a noop, got %v", err)
	}
}
