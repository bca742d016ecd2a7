package localstore

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/upwardia/upwardia/internal/database"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStore(db),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.Get(ctx, BucketUser); err != nil || ok {
				t.Fatalf("empty get: ok=%v err=%v, want absent", ok, err)
			}

			if err := store.Set(ctx, BucketUser, []byte(`{"id":"u1"}`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			value, ok, err := store.Get(ctx, BucketUser)
			if err != nil || !ok {
				t.Fatalf("get: ok=%v err=%v", ok, err)
			}
			if !bytes.Equal(value, []byte(`{"id":"u1"}`)) {
				t.Errorf("value = %s", value)
			}

			// Overwrite
			if err := store.Set(ctx, BucketUser, []byte(`{"id":"u2"}`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			value, _, _ = store.Get(ctx, BucketUser)
			if !bytes.Equal(value, []byte(`{"id":"u2"}`)) {
				t.Errorf("after overwrite = %s", value)
			}

			// Buckets are independent
			if _, ok, _ := store.Get(ctx, BucketMissions); ok {
				t.Error("missions bucket should be absent")
			}
		})
	}
}

func TestSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			wrote, err := store.SetIfAbsent(ctx, BucketRewards, []byte(`[1]`))
			if err != nil {
				t.Fatalf("seed: %v", err)
			}
			if !wrote {
				t.Error("first SetIfAbsent should write")
			}

			wrote, err = store.SetIfAbsent(ctx, BucketRewards, []byte(`[2]`))
			if err != nil {
				t.Fatalf("second seed: %v", err)
			}
			if wrote {
				t.Error("second SetIfAbsent should not write")
			}

			value, _, _ := store.Get(ctx, BucketRewards)
			if !bytes.Equal(value, []byte(`[1]`)) {
				t.Errorf("value = %s, want first write preserved", value)
			}
		})
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := []byte(`abc`)
	if err := store.Set(ctx, BucketUser, in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = 'x'

	out, _, _ := store.Get(ctx, BucketUser)
	if !bytes.Equal(out, []byte(`abc`)) {
		t.Errorf("stored value shares caller's backing array: %s", out)
	}

	out[0] = 'y'
	again, _, _ := store.Get(ctx, BucketUser)
	if !bytes.Equal(again, []byte(`abc`)) {
		t.Errorf("returned value shares stored backing array: %s", again)
	}
}

func TestWithLatencyDelays(t *testing.T) {
	store := WithLatency(NewMemoryStore(), 30*time.Millisecond)

	start := time.Now()
	if err := store.Set(context.Background(), BucketUser, []byte(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("set returned after %v, want >= 30ms", elapsed)
	}
}

func TestWithLatencyRespectsContext(t *testing.T) {
	store := WithLatency(NewMemoryStore(), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err := store.Get(ctx, BucketUser)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestWithLatencyZeroIsPassthrough(t *testing.T) {
	inner := NewMemoryStore()
	if got := WithLatency(inner, 0); got != Store(inner) {
		t.Error("zero latency should return the inner store unchanged")
	}
}

func TestFlakyStoreFailsWritesOnly(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	if err := inner.Set(ctx, BucketUser, []byte(`1`)); err != nil {
		t.Fatalf("prime: %v", err)
	}

	boom := errors.New("boom")
	flaky := NewFlakyStore(inner, boom)
	flaky.FailWrites = true

	if err := flaky.Set(ctx, BucketUser, []byte(`2`)); !errors.Is(err, boom) {
		t.Errorf("set err = %v, want boom", err)
	}
	if wrote, err := flaky.SetIfAbsent(ctx, BucketMissions, []byte(`2`)); err == nil || wrote {
		t.Error("SetIfAbsent should fail while FailWrites is set")
	}

	value, ok, err := flaky.Get(ctx, BucketUser)
	if err != nil || !ok || !bytes.Equal(value, []byte(`1`)) {
		t.Errorf("reads should pass through: %s ok=%v err=%v", value, ok, err)
	}
}
