package orderbook

import (
	"testing"
	"time"
)

func TestNextDeadlineToday(t *testing.T) {
	book := New()
	defer book.Close()

	p := newPruner(book, 16, 0)
	p.now = func() time.Time {
		return time.Date(2026, 8, 6, 9, 0, 0, 0, time.UTC)
	}

	got := p.nextDeadline()
	want := time.Date(2026, 8, 6, 16, 0, 0, int(closeSkew), time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNextDeadlineRollsToTomorrow(t *testing.T) {
	book := New()
	defer book.Close()

	p := newPruner(book, 16, 0)
	p.now = func() time.Time {
		return time.Date(2026, 8, 6, 16, 0, 1, 0, time.UTC)
	}

	got := p.nextDeadline()
	want := time.Date(2026, 8, 7, 16, 0, 0, int(closeSkew), time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected next-day deadline %v, got %v", want, got)
	}
}

func TestPruneCycleCancelsOnlyGoodForDay(t *testing.T) {
	book := New()
	defer book.Close()

	book.AddOrder(NewOrder(GoodForDay, 1, Buy, 100, 5))
	book.AddOrder(NewOrder(GoodTillCancel, 2, Buy, 99, 5))

	book.pruner.pruneCycle()

	if _, ok := book.orders[1]; ok {
		t.Fatalf("expected good-for-day order pruned")
	}
	if _, ok := book.orders[2]; !ok {
		t.Fatalf("expected good-till-cancel order to survive pruning")
	}
}

func TestPrunerStopIsIdempotentAndJoins(t *testing.T) {
	book := New()
	book.pruner.stop()
	book.Close() // second stop must not block or panic
}
