package store_test

import (
	"context"
	"errors"
	"testing"

	"naulify_agent/internal/models"
	"naulify_agent/internal/store"
)

func seedFares(t *testing.T, fares store.Collection[models.FareCollection], vehicleID string, stamps ...int64) {
	t.Helper()
	for _, ts := range stamps {
		f := models.FareCollection{ID: fares.NewID(), VehicleID: vehicleID, Timestamp: ts, Amount: 50}
		if err := fares.Set(context.Background(), f); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func timestamps(fs []models.FareCollection) []int64 {
	out := make([]int64, len(fs))
	for i, f := range fs {
		out[i] = f.Timestamp
	}
	return out
}

func TestMemory_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	users := store.Open[models.User](store.NewMemory(), store.CollectionUsers)

	u := models.User{ID: "u1", Name: "Wanjiru", Email: "w@naulify.com", CreatedAt: 42}
	if err := users.Set(ctx, u); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := users.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != u {
		t.Fatalf("got %+v, want %+v", got, u)
	}

	if err := users.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.Get(ctx, "u1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_SetRequiresID(t *testing.T) {
	users := store.Open[models.User](store.NewMemory(), store.CollectionUsers)
	if err := users.Set(context.Background(), models.User{Name: "x"}); !errors.Is(err, store.ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestMemory_FindOrdersDescendingWithLimit(t *testing.T) {
	fares := store.Open[models.FareCollection](store.NewMemory(), store.CollectionFareCollections)
	seedFares(t, fares, "v1", 100, 300, 200)
	seedFares(t, fares, "v2", 999)

	got, err := fares.Find(context.Background(),
		store.Where("vehicle_id", store.OpEq, "v1").OrderByDesc("timestamp").WithLimit(2))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ts := timestamps(got)
	if len(ts) != 2 || ts[0] != 300 || ts[1] != 200 {
		t.Fatalf("got %v, want [300 200]", ts)
	}
}

func TestMemory_FindRangeIsInclusive(t *testing.T) {
	fares := store.Open[models.FareCollection](store.NewMemory(), store.CollectionFareCollections)
	seedFares(t, fares, "v1", 100, 150, 200, 250, 300)

	got, err := fares.Find(context.Background(), store.Where("vehicle_id", store.OpEq, "v1").
		Where("timestamp", store.OpGte, int64(150)).
		Where("timestamp", store.OpLte, int64(250)).
		OrderByDesc("timestamp"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ts := timestamps(got)
	if len(ts) != 3 || ts[0] != 250 || ts[1] != 200 || ts[2] != 150 {
		t.Fatalf("got %v, want [250 200 150]", ts)
	}
}

func TestMemory_TiesBreakByID(t *testing.T) {
	ctx := context.Background()
	fares := store.Open[models.FareCollection](store.NewMemory(), store.CollectionFareCollections)
	for _, id := range []string{"c", "a", "b"} {
		if err := fares.Set(ctx, models.FareCollection{ID: id, VehicleID: "v1", Timestamp: 10}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := fares.Find(ctx, store.Where("vehicle_id", store.OpEq, "v1").OrderByDesc("timestamp"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	users := store.Open[models.User](store.NewMemory(), store.CollectionUsers)

	if _, err := users.Find(ctx, store.Query{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMemory_UnsupportedOperator(t *testing.T) {
	users := store.Open[models.User](store.NewMemory(), store.CollectionUsers)
	_, err := users.Find(context.Background(), store.Where("name", store.Op("!="), "x"))
	if !errors.Is(err, store.ErrUnsupportedFilter) {
		t.Fatalf("expected ErrUnsupportedFilter, got %v", err)
	}
}
