package orderbook

import "testing"

func TestFillAndKillPartialThenKilled(t *testing.T) {
	ob := New()
	defer ob.Close()

	ob.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 101, 3))
	trades := ob.AddOrder(NewOrder(FillAndKill, 2, Buy, 101, 10))

	if len(trades) != 1 || trades[0].Bid.Quantity != 3 {
		t.Fatalf("expected one trade of 3, got %+v", trades)
	}
	if ob.Size() != 0 {
		t.Fatalf("expected FAK residual killed, got size %d", ob.Size())
	}
}

func TestFillAndKillNoCrossRejected(t *testing.T) {
	ob := New()
	defer ob.Close()

	ob.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 105, 5))
	trades := ob.AddOrder(NewOrder(FillAndKill, 2, Buy, 100, 10))

	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %+v", trades)
	}
	if ob.Size() != 1 {
		t.Fatalf("expected only the resting sell, got size %d", ob.Size())
	}
}

func TestFillOrKillRejectsPartial(t *testing.T) {
	ob := New()
	defer ob.Close()

	ob.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 101, 5))
	trades := ob.AddOrder(NewOrder(FillOrKill, 2, Buy, 101, 10))

	if len(trades) != 0 {
		t.Fatalf("expected FOK reject, got %+v", trades)
	}
	if ob.Size() != 1 {
		t.Fatalf("expected order 2 not resting, got size %d", ob.Size())
	}
}

func TestFillOrKillAcceptsWhenFullyFillableAcrossLevels(t *testing.T) {
	ob := New()
	defer ob.Close()

	ob.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 100, 5))
	ob.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 101, 5))

	trades := ob.AddOrder(NewOrder(FillOrKill, 3, Buy, 101, 10))
	if len(trades) != 2 {
		t.Fatalf("expected FOK to fully fill across two levels, got %+v", trades)
	}
	if ob.Size() != 0 {
		t.Fatalf("expected fully filled, empty book, got size %d", ob.Size())
	}
}

func TestMarketOrderRewriteAndSweep(t *testing.T) {
	ob := New()
	defer ob.Close()

	ob.AddOrder(NewOrder(GoodTillCancel, 1, Sell, 101, 2))
	ob.AddOrder(NewOrder(GoodTillCancel, 2, Sell, 103, 2))

	trades := ob.AddOrder(NewOrder(Market, 3, Buy, 0, 10))
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %+v", trades)
	}
	if ob.Size() != 1 {
		t.Fatalf("expected residual of order 3 resting, got size %d", ob.Size())
	}

	infos := ob.GetOrderInfos()
	if len(infos.Asks) != 0 {
		t.Fatalf("expected asks empty, got %+v", infos.Asks)
	}
	if len(infos.Bids) != 1 || infos.Bids[0].Price != 103 || infos.Bids[0].Quantity != 6 {
		t.Fatalf("expected residual GTC buy resting at worst ask 103 qty 6, got %+v", infos.Bids)
	}
}

func TestMarketOrderRejectedWhenOpposingBookEmpty(t *testing.T) {
	ob := New()
	defer ob.Close()

	trades := ob.AddOrder(NewOrder(Market, 1, Buy, 0, 10))
	if len(trades) != 0 {
		t.Fatalf("expected reject, got %+v", trades)
	}
	if ob.Size() != 0 {
		t.Fatalf("expected nothing resting, got size %d", ob.Size())
	}
}

func TestZeroQuantityPanics(t *testing.T) {
	ob := New()
	defer ob.Close()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on zero-quantity order")
		}
	}()
	ob.AddOrder(NewOrder(GoodTillCancel, 1, Buy, 100, 0))
}

func TestOverfillPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on overfill")
		}
		if _, ok := r.(*OrderOverfillError); !ok {
			t.Fatalf("expected *OrderOverfillError, got %T", r)
		}
	}()

	o := NewOrder(GoodTillCancel, 1, Buy, 100, 5)
	o.Fill(10)
}
