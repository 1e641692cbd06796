package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"golang.org/x/oauth2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), "default")
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, s
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession on empty store, got %v", err)
	}

	if err := store.Save(ctx, NewToken("redis-token")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tok, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tok.AccessToken != "redis-token" {
		t.Errorf("expected redis-token, got %q", tok.AccessToken)
	}
}

func TestRedisStore_KeyIsNamespaced(t *testing.T) {
	store, s := setupTestRedis(t)

	if err := store.Save(context.Background(), NewToken("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !s.Exists("taskhub:session:default") {
		t.Errorf("expected key taskhub:session:default, have %v", s.Keys())
	}
}

func TestRedisStore_ExpiringToken(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	tok := &oauth2.Token{AccessToken: "short", Expiry: time.Now().Add(time.Minute)}
	if err := store.Save(ctx, tok); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.FastForward(2 * time.Minute)

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestRedisStore_Clear(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, NewToken("gone")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestNewRedisStore_BadURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url", "default"); err == nil {
		t.Fatal("expected error for bad url")
	}
}
