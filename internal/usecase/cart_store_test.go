package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/floramarket/storefront/internal/domain"
)

var (
	roses = domain.Product{ID: 1, Name: "Розы красные", Category: "розы", Price: 2500}
	peony = domain.Product{ID: 2, Name: "Пионы", Category: "пионы", Price: 3900}
	tulip = domain.Product{ID: 3, Name: "Тюльпаны", Category: "тюльпаны", Price: 1800}
)

func TestCartStore_AddMergesQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(newMemKV(), nil, nil)

	store.AddItem(ctx, roses)
	store.AddItem(ctx, roses)
	store.AddItem(ctx, peony)
	store.AddItem(ctx, roses)

	lines := store.Lines()
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Item.ID != roses.ID || lines[0].Qty != 3 {
		t.Errorf("lines[0] = {%d, qty %d}, want {1, qty 3}", lines[0].Item.ID, lines[0].Qty)
	}
	if store.Count() != 4 {
		t.Errorf("Count() = %d, want 4", store.Count())
	}
	if want := roses.Price*3 + peony.Price; store.Total() != want {
		t.Errorf("Total() = %d, want %d", store.Total(), want)
	}
}

func TestCartStore_RemoveDropsWholeLine(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(newMemKV(), nil, nil)

	store.AddItem(ctx, roses)
	store.AddItem(ctx, roses)
	store.RemoveItem(roses.ID)

	if len(store.Lines()) != 0 {
		t.Errorf("Lines() = %v, want empty", store.Lines())
	}
	if store.Count() != 0 || store.Total() != 0 {
		t.Errorf("Count/Total = %d/%d, want 0/0", store.Count(), store.Total())
	}
}

func TestCartStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := NewCartStore(newMemKV(), nil, nil)

	store.AddItem(ctx, roses)
	store.AddItem(ctx, peony)
	store.Clear()

	if len(store.Lines()) != 0 {
		t.Errorf("Lines() after Clear = %v, want empty", store.Lines())
	}
}

func TestCartStore_RoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()

	first := NewCartStore(kv, nil, nil)
	first.AddItem(ctx, roses)
	first.AddItem(ctx, roses)
	first.AddItem(ctx, tulip)

	// A fresh store over the same storage reproduces the state.
	second := NewCartStore(kv, nil, nil)

	want := first.Lines()
	got := second.Lines()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lines[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCartStore_HydratesDespiteCorruptStorage(t *testing.T) {
	kv := newMemKV()
	kv.data["cart.items"] = []byte("{corrupt")

	store := NewCartStore(kv, nil, nil)

	if len(store.Lines()) != 0 {
		t.Errorf("Lines() = %v, want empty on corrupt storage", store.Lines())
	}
}

func TestCartStore_EmitsNotificationsAndAnalytics(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	notifier := &recordingNotifier{}
	store := NewCartStore(newMemKV(), api, notifier)

	store.AddItem(ctx, roses)

	if notifier.addedCount() != 1 {
		t.Errorf("ProductAdded fired %d times, want 1", notifier.addedCount())
	}
	if got := notifier.lastToast(); got != "В корзине: Розы красные" {
		t.Errorf("toast = %q", got)
	}

	select {
	case name := <-api.analytics:
		if name != "cart:add" {
			t.Errorf("analytics event = %q, want cart:add", name)
		}
	case <-time.After(time.Second):
		t.Fatal("analytics event never fired")
	}
}
