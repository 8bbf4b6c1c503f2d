package agent

import (
	"context"
	"testing"

	"recruit_client/internal/config"
	"recruit_client/internal/lock"
	"recruit_client/internal/store"
)

func TestOpenStoreSelectsDriver(t *testing.T) {
	ctx := context.Background()

	memory, closeMemory, err := openStore(ctx, config.Config{StoreDriver: config.DriverMemory}, nil)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	defer closeMemory()
	if _, ok := memory.(*store.Memory); !ok {
		t.Fatalf("expected memory store, got %T", memory)
	}

	file, closeFile, err := openStore(ctx, config.Config{StoreDriver: config.DriverFile, StorePath: t.TempDir()}, nil)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	defer closeFile()
	if _, ok := file.(*store.File); !ok {
		t.Fatalf("expected file store, got %T", file)
	}

	if _, _, err := openStore(ctx, config.Config{StoreDriver: config.DriverRedis, RedisURL: "redis://localhost:6379"}, nil); err == nil {
		t.Fatal("expected error without redis client")
	}
}

func TestNewLockerFallsBackToMemory(t *testing.T) {
	if _, ok := newLocker(nil).(*lock.Memory); !ok {
		t.Fatal("expected in-process locker without redis")
	}
}

func TestConnectRedisSkipsEmptyURL(t *testing.T) {
	if client := connectRedis("", nil); client != nil {
		t.Fatal("expected nil client")
	}
}
