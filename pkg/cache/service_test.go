package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisService(t *testing.T) (Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(client), mr
}

type layoutRow struct {
	Seats []string `json:"seats"`
}

func TestRedisServiceGetSetDelete(t *testing.T) {
	ctx := context.Background()
	svc, mr := newRedisService(t)

	var got layoutRow
	if err := svc.Get(ctx, "busdesk:layouts:bus:b1:type:any", &got); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	if err := svc.Set(ctx, "busdesk:layouts:bus:b1:type:any", layoutRow{Seats: []string{"1A", "1B"}}, time.Minute); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := svc.Get(ctx, "busdesk:layouts:bus:b1:type:any", &got); err != nil || len(got.Seats) != 2 {
		t.Fatalf("unexpected get %v %+v", err, got)
	}
	if !svc.Exists(ctx, "busdesk:layouts:bus:b1:type:any") {
		t.Fatalf("expected key to exist")
	}

	mr.FastForward(2 * time.Minute)
	if svc.Exists(ctx, "busdesk:layouts:bus:b1:type:any") {
		t.Fatalf("expected key to expire")
	}

	svc.Set(ctx, "k", "v", 0)
	if err := svc.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if mr.Exists("k") {
		t.Fatalf("key survived delete")
	}
}

func TestRedisServiceCorruptValue(t *testing.T) {
	ctx := context.Background()
	svc, mr := newRedisService(t)

	mr.Set("k", "{not json")
	var got layoutRow
	err := svc.Get(ctx, "k", &got)
	if err == nil || errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected unmarshal error, got %v", err)
	}
}

func TestRedisServiceDeletePattern(t *testing.T) {
	ctx := context.Background()
	svc, mr := newRedisService(t)

	for _, key := range []string{
		"busdesk:layouts:bus:b1:type:any",
		"busdesk:layouts:bus:b1:type:vip",
		"busdesk:layouts:bus:b2:type:any",
	} {
		svc.Set(ctx, key, layoutRow{}, time.Minute)
	}

	if err := svc.DeletePattern(ctx, "busdesk:layouts:bus:b1:type:*"); err != nil {
		t.Fatalf("delete pattern error: %v", err)
	}
	if mr.Exists("busdesk:layouts:bus:b1:type:any") || mr.Exists("busdesk:layouts:bus:b1:type:vip") {
		t.Fatalf("matching keys survived")
	}
	if !mr.Exists("busdesk:layouts:bus:b2:type:any") {
		t.Fatalf("other plate dropped")
	}
	if err := svc.DeletePattern(ctx, "busdesk:none:*"); err != nil {
		t.Fatalf("empty match should not fail: %v", err)
	}
}

func TestRedisServiceGetOrSet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRedisService(t)

	calls := 0
	fetch := func(ctx context.Context) (interface{}, error) {
		calls++
		return layoutRow{Seats: []string{"1A"}}, nil
	}

	for i := 0; i < 2; i++ {
		var got layoutRow
		if err := svc.GetOrSet(ctx, "k", time.Minute, fetch, &got); err != nil || len(got.Seats) != 1 {
			t.Fatalf("get or set %d: %v %+v", i, err, got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}

	fetchErr := errors.New("store down")
	var got layoutRow
	err := svc.GetOrSet(ctx, "other", time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, fetchErr
	}, &got)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if svc.Exists(ctx, "other") {
		t.Fatalf("failed fetch was cached")
	}
}

func TestRedisServicePing(t *testing.T) {
	svc, mr := newRedisService(t)
	if err := svc.Ping(context.Background()); err != nil {
		t.Fatalf("ping error: %v", err)
	}
	mr.Close()
	if err := svc.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping to fail once redis is gone")
	}
}
