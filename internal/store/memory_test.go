package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMemoryGetReturnsCopy(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Set(ctx, KeyProducts, json.RawMessage(`[1,2]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, err := s.Get(ctx, KeyProducts)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got[1] = '9'
	again, _, _ := s.Get(ctx, KeyProducts)
	if string(again) != `[1,2]` {
		t.Fatalf("mutating a returned value leaked into the store: %s", again)
	}
}

func TestMemoryWithTxDiscardsOnError(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if err := s.Set(ctx, KeyCustomers, json.RawMessage(`["before"]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx Store) error {
		if err := tx.Set(ctx, KeyCustomers, json.RawMessage(`["after"]`)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _, _ := s.Get(ctx, KeyCustomers)
	if string(got) != `["before"]` {
		t.Fatalf("expected staged write discarded, got %s", got)
	}
}

func TestMemoryWithTxKeepsConcurrentUnrelatedWrite(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx Store) error {
		// A write to a different key lands on the live store while the
		// transaction is open; committing must not discard it.
		if err := s.Set(ctx, KeyUsers, json.RawMessage(`["u1"]`)); err != nil {
			return err
		}
		return tx.Set(ctx, KeySales, json.RawMessage(`["s1"]`))
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	users, ok, _ := s.Get(ctx, KeyUsers)
	if !ok || string(users) != `["u1"]` {
		t.Fatalf("unrelated write was lost: ok=%v %s", ok, users)
	}
	sales, ok, _ := s.Get(ctx, KeySales)
	if !ok || string(sales) != `["s1"]` {
		t.Fatalf("transaction write missing: ok=%v %s", ok, sales)
	}
}

func TestMemoryWithTxReadsOwnWrites(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx Store) error {
		if err := tx.Set(ctx, KeyProducts, json.RawMessage(`["p1"]`)); err != nil {
			return err
		}
		v, ok, err := tx.Get(ctx, KeyProducts)
		if err != nil || !ok || string(v) != `["p1"]` {
			t.Fatalf("tx read-your-writes: ok=%v err=%v %s", ok, err, v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func TestMemoryWithTxSwapsOnSuccess(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx Store) error {
		return tx.Set(ctx, KeySales, json.RawMessage(`["sale"]`))
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	got, ok, _ := s.Get(ctx, KeySales)
	if !ok || string(got) != `["sale"]` {
		t.Fatalf("expected committed write, got ok=%v %s", ok, got)
	}
}
