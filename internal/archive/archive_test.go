package archive

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shodh-memory/widget-gateway/internal/model"
)

func TestNewStore(t *testing.T) {
	if _, err := NewStore(StoreTypeRedis); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("redis without client: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := NewStore("postgres"); !errors.Is(err, ErrInvalidStoreType) {
		t.Fatalf("expected ErrInvalidStoreType, got %v", err)
	}
}

func TestMemoryStoreRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(StoreTypeMemory, WithCapacity(3))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer store.Close()

	for i := 1; i <= 5; i++ {
		d := &model.SessionDigest{ID: fmt.Sprintf("d%d", i), SessionID: fmt.Sprintf("s%d", i)}
		if err := store.Save(ctx, d); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected capacity-bounded list of 3, got %d", len(got))
	}
	if got[0].ID != "d5" || got[2].ID != "d3" {
		t.Fatalf("unexpected order: %s..%s", got[0].ID, got[2].ID)
	}

	limited, _ := store.Recent(ctx, 1)
	if len(limited) != 1 || limited[0].ID != "d5" {
		t.Fatalf("unexpected limited result: %+v", limited)
	}
}

func TestMemoryStoreRejectsDuplicateSession(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore(StoreTypeMemory)

	if err := store.Save(ctx, &model.SessionDigest{ID: "a", SessionID: "s1"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, &model.SessionDigest{ID: "b", SessionID: "s1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Digests without a session id are never de-duplicated.
	for i := 0; i < 2; i++ {
		if err := store.Save(ctx, &model.SessionDigest{ID: "anon"}); err != nil {
			t.Fatalf("anonymous save: %v", err)
		}
	}

	got, _ := store.Recent(ctx, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 digests, got %d", len(got))
	}
}
