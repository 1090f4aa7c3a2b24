package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSnapshotStorageLifecycle(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.AttributionKey("tid-1")
	if err := client.Set(ctx, key, `{"tracking_id":"tid-1"}`, 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, err := client.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if value != `{"tracking_id":"tid-1"}` {
		t.Fatalf("expected stored snapshot, got %q", value)
	}

	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if _, err := client.Get(ctx, key); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSetNXOnlySetsOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	ok, err := client.SetNX(ctx, "fs:lock", "a", time.Second)
	if err != nil || !ok {
		t.Fatalf("first SetNX should win: ok=%v err=%v", ok, err)
	}
	ok, err = client.SetNX(ctx, "fs:lock", "b", time.Second)
	if err != nil || ok {
		t.Fatalf("second SetNX should lose: ok=%v err=%v", ok, err)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.AttributionKey("tid-9"); got != "fs:attribution:tid-9" {
		t.Fatalf("unexpected attribution key %s", got)
	}
	if got := client.ReportCacheKey("attribution", "abc"); got != "fs:report:attribution:abc" {
		t.Fatalf("unexpected report cache key %s", got)
	}
	if got := client.CounterKey("hits"); got != "fs:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
	if got := client.ReportCacheKey("kpis", ""); got != "fs:report:kpis" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

func TestUninitializedClientErrors(t *testing.T) {
	client := &Client{}
	if err := client.Set(context.Background(), "k", "v", 0); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
	if _, err := client.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error from uninitialized client")
	}
}

type mockCmdable struct {
	data map[string]string
	incr map[string]int64
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
