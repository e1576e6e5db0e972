package orderbook

import (
	"container/heap"
	"container/list"
)

// ladder is one side's price-ordered book: a map from price to a FIFO
// queue of resting orders, plus a priceHeap giving O(log n) access to
// the best price. Queues are container/list.List rather than the
// teacher's gammazero/deque so cancellation can splice an order out
// from any position in O(1) via the *list.Element handle returned by
// pushBack — a deque only gives O(1) removal at the ends.
type ladder struct {
	levels map[Price]*list.List
	best   *priceHeap
}

func newLadder(less func(i, j Price) bool) *ladder {
	h := newPriceHeap(less)
	heap.Init(h)
	return &ladder{
		levels: make(map[Price]*list.List),
		best:   h,
	}
}

func (l *ladder) empty() bool { return l.best.Len() == 0 }

func (l *ladder) bestPrice() (Price, bool) { return l.best.Peek() }

// worstPrice returns the least favorable resting price on this side —
// the highest ask or the lowest bid. Only needed for the market-order
// rewrite in AddOrder, so it's fine to pay for a full sort rather than
// track a second heap.
func (l *ladder) worstPrice() (Price, bool) {
	sorted := l.best.sorted()
	if len(sorted) == 0 {
		return 0, false
	}
	return sorted[len(sorted)-1], true
}

func (l *ladder) queueAt(price Price) (*list.List, bool) {
	q, ok := l.levels[price]
	return q, ok
}

// pushBack appends order to the tail of its price level, creating the
// level if it doesn't exist yet, and returns the stable handle used
// for O(1) removal later.
func (l *ladder) pushBack(order *Order) *list.Element {
	q, ok := l.levels[order.Price()]
	if !ok {
		q = list.New()
		l.levels[order.Price()] = q
		heap.Push(l.best, order.Price())
	}
	return q.PushBack(order)
}

// remove splices elem out of the price level's queue in O(1) and
// deletes the level entirely if it is now empty.
func (l *ladder) remove(price Price, elem *list.Element) {
	q, ok := l.levels[price]
	if !ok {
		return
	}
	q.Remove(elem)
	if q.Len() == 0 {
		l.deleteLevel(price)
	}
}

// dropEmptyTop removes the top price level if its queue has emptied
// out from matching. Called by matchOrders after draining a level.
func (l *ladder) dropEmptyTop(price Price) {
	q, ok := l.levels[price]
	if ok && q.Len() == 0 {
		l.deleteLevel(price)
	}
}

func (l *ladder) deleteLevel(price Price) {
	delete(l.levels, price)
	// The membership check skips the heap scan for a price that is not
	// on the heap, so this is safe to call for any price.
	if l.best.index[price] {
		l.removeFromHeap(price)
	}
}

// removeFromHeap deletes an arbitrary price from the heap. Prices are
// only ever removed when their level empties, which is a rare event
// relative to matching, so a linear scan to find the heap index is an
// acceptable trade against carrying a second index just for this.
func (l *ladder) removeFromHeap(price Price) {
	for i, p := range l.best.prices {
		if p == price {
			heap.Remove(l.best, i)
			return
		}
	}
}

// sortedLevels returns (price, queue) pairs in best-to-worst order,
// used by GetOrderInfos and canFullyFill.
func (l *ladder) sortedLevels() []struct {
	Price Price
	Queue *list.List
} {
	prices := l.best.sorted()
	out := make([]struct {
		Price Price
		Queue *list.List
	}, 0, len(prices))
	for _, p := range prices {
		out = append(out, struct {
			Price Price
			Queue *list.List
		}{p, l.levels[p]})
	}
	return out
}
