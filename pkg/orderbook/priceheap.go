package orderbook

import "sort"

// priceHeap implements heap.Interface over ticks. It is the ladder's
// best-price index: bids use a "greater than" comparator so the top is
// the highest bid, asks use "less than" so the top is the lowest ask.
// Membership is tracked separately so a price already on the heap is
// never pushed twice.
type priceHeap struct {
	prices []Price
	less   func(i, j Price) bool
	index  map[Price]bool
}

func newPriceHeap(less func(i, j Price) bool) *priceHeap {
	return &priceHeap{
		prices: []Price{},
		less:   less,
		index:  make(map[Price]bool),
	}
}

func (h priceHeap) Len() int { return len(h.prices) }

func (h priceHeap) Less(i, j int) bool { return h.less(h.prices[i], h.prices[j]) }

func (h priceHeap) Swap(i, j int) { h.prices[i], h.prices[j] = h.prices[j], h.prices[i] }

func (h *priceHeap) Push(x any) {
	price := x.(Price)
	if !h.index[price] {
		h.index[price] = true
		h.prices = append(h.prices, price)
	}
}

func (h *priceHeap) Pop() any {
	n := len(h.prices)
	price := h.prices[n-1]
	h.prices = h.prices[:n-1]
	delete(h.index, price)
	return price
}

// Peek returns the best price without removing it.
func (h *priceHeap) Peek() (Price, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}

// sorted returns every price on the heap in best-to-worst order. The
// heap array only guarantees the root is best; GetOrderInfos and
// canFullyFill both need a full ordered walk, so this takes a copy and
// sorts it rather than repeatedly popping and rebuilding the heap.
func (h *priceHeap) sorted() []Price {
	out := make([]Price, len(h.prices))
	copy(out, h.prices)
	sort.Slice(out, func(i, j int) bool { return h.less(out[i], out[j]) })
	return out
}
