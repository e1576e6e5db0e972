// Package orderbook implements a single-instrument continuous limit
// order book with a price-time priority matching engine: two
// price-ordered ladders, an order index for O(1) lookup/cancel, a
// per-price level aggregate for fill-feasibility queries, and a
// background pruner that expires good-for-day orders.
package orderbook

import (
	"container/list"
	"sync"

	"github.com/nsavage/limitbook/config"
	"github.com/nsavage/limitbook/pkg/obslog"
)

// orderEntry is the order index's value: the order itself and the
// stable handle into its side ladder's queue.
type orderEntry struct {
	order *Order
	elem  *list.Element
}

// Orderbook is the matching engine. The zero value is not usable; use
// New. Every exported method holds mu for all of its work on book
// state (trade callbacks run after it is released): bids, asks, the
// order index and the level aggregates are always mutated as one
// atomic unit.
type Orderbook struct {
	mu sync.Mutex

	bids *ladder
	asks *ladder

	orders map[OrderId]*orderEntry
	levels *levelIndex

	logger    *obslog.Logger
	callbacks []func(Trades)

	pruner *pruner
}

// Option configures an Orderbook at construction time.
type Option func(*Orderbook)

// WithLogger attaches a structured event logger. Without this option
// the engine logs nothing.
func WithLogger(l *obslog.Logger) Option {
	return func(b *Orderbook) { b.logger = l }
}

// WithMarketClose overrides the good-for-day pruner's daily deadline
// from its default of 16:00:00.100 local time.
func WithMarketClose(hour, minute int) Option {
	return func(b *Orderbook) {
		if b.pruner != nil {
			b.pruner.hour = hour
			b.pruner.minute = minute
		}
	}
}

// WithConfig applies a loaded config.BookConfig's log level and market
// close override in one step. An unparseable LogLevel falls back to
// the no-op logger rather than failing construction.
func WithConfig(cfg *config.BookConfig) Option {
	return func(b *Orderbook) {
		if level, err := obslog.ParseLevel(cfg.LogLevel); err == nil {
			b.logger = obslog.New(level)
		}
		if cfg.MarketCloseHour != 0 || cfg.MarketCloseMinute != 0 {
			WithMarketClose(cfg.MarketCloseHour, cfg.MarketCloseMinute)(b)
		}
	}
}

// New builds an Orderbook and starts its good-for-day pruner. Call
// Close when done to stop the pruner cleanly.
func New(opts ...Option) *Orderbook {
	b := &Orderbook{
		bids:   newLadder(func(i, j Price) bool { return i > j }),
		asks:   newLadder(func(i, j Price) bool { return i < j }),
		orders: make(map[OrderId]*orderEntry),
		levels: newLevelIndex(),
		logger: obslog.Nop(),
	}
	b.pruner = newPruner(b, defaultMarketCloseHour, defaultMarketCloseMinute)
	for _, opt := range opts {
		opt(b)
	}
	b.pruner.start()
	return b
}

// Close stops the good-for-day pruner and waits for it to exit.
func (b *Orderbook) Close() {
	b.pruner.stop()
}

// RegisterTradeCallback registers fn to be invoked, outside the book
// lock, with every non-empty trade batch AddOrder or ModifyOrder
// produces. Because fn runs after the lock is released, it is safe for
// fn to call back into any other Orderbook method.
func (b *Orderbook) RegisterTradeCallback(fn func(Trades)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, fn)
}

// Size returns the number of resting orders currently indexed.
func (b *Orderbook) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

// AddOrder admits order into the book, matches what it can, and
// returns the trades produced. Admission checks run in order: duplicate
// id, market-order rewrite, fill-and-kill crossability, fill-or-kill
// feasibility, then the order rests and matching runs.
func (b *Orderbook) AddOrder(order *Order) Trades {
	trades, cbs := b.addOrderUnderLock(order)
	b.invokeCallbacks(trades, cbs)
	return trades
}

// addOrderUnderLock holds mu for addOrderLocked's full duration via a
// deferred unlock, so a panic out of validateOrder or matchOrders (an
// invalid order, an overfill) still releases the lock instead of
// wedging every other call on the book forever.
func (b *Orderbook) addOrderUnderLock(order *Order) (Trades, []func(Trades)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	trades := b.addOrderLocked(order)
	return trades, b.callbacks
}

func (b *Orderbook) addOrderLocked(order *Order) Trades {
	validateOrder(order)

	if _, exists := b.orders[order.ID()]; exists {
		b.logger.OrderRejected(uint64(order.ID()), "duplicate_id")
		return nil
	}

	if order.Type() == Market {
		if !b.rewriteMarketOrder(order) {
			b.logger.OrderRejected(uint64(order.ID()), "market_empty_opposing_book")
			return nil
		}
	}

	if order.Type() == FillAndKill && !b.canMatch(order.Side(), order.Price()) {
		b.logger.OrderRejected(uint64(order.ID()), "fill_and_kill_no_cross")
		return nil
	}

	if order.Type() == FillOrKill && !b.canFullyFill(order.Side(), order.Price(), order.InitialQuantity()) {
		b.logger.OrderRejected(uint64(order.ID()), "fill_or_kill_infeasible")
		return nil
	}

	lad := b.ladderFor(order.Side())
	elem := lad.pushBack(order)
	b.orders[order.ID()] = &orderEntry{order: order, elem: elem}
	b.levels.addOrder(order.Price(), order.InitialQuantity())
	b.logger.OrderAdded(uint64(order.ID()), order.Side().String(), int32(order.Price()), uint32(order.InitialQuantity()))

	trades := b.matchOrders()
	if len(trades) > 0 {
		var totalQty uint64
		for _, t := range trades {
			totalQty += uint64(t.Bid.Quantity)
		}
		b.logger.TradesMatched(len(trades), totalQty)
	}
	return trades
}

// invokeCallbacks runs the registered trade callbacks. Callers must
// hold a snapshot of b.callbacks taken while mu was held, and must call
// this only after releasing mu — see RegisterTradeCallback.
func (b *Orderbook) invokeCallbacks(trades Trades, cbs []func(Trades)) {
	if len(trades) == 0 {
		return
	}
	for _, cb := range cbs {
		cb(trades)
	}
}

// rewriteMarketOrder rewrites a market order in place to a GTC resting
// at the worst currently-resting opposing price, guaranteeing it
// crosses every level currently on the book without crossing into its
// own side. Returns false if there is no opposing liquidity to rewrite
// against, in which case the caller must reject the order.
func (b *Orderbook) rewriteMarketOrder(order *Order) bool {
	if order.Side() == Buy {
		worst, ok := b.asks.worstPrice()
		if !ok {
			return false
		}
		order.toGoodTillCancel(worst)
		return true
	}
	worst, ok := b.bids.worstPrice()
	if !ok {
		return false
	}
	order.toGoodTillCancel(worst)
	return true
}

// CancelOrder removes order_id from the book if present. Unknown ids
// are a silent no-op.
func (b *Orderbook) CancelOrder(orderID OrderId) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelOrderLocked(orderID, "client_cancel")
}

func (b *Orderbook) cancelOrderLocked(orderID OrderId, reason string) {
	entry, ok := b.orders[orderID]
	if !ok {
		return
	}
	lad := b.ladderFor(entry.order.Side())
	lad.remove(entry.order.Price(), entry.elem)
	b.levels.removeOrder(entry.order.Price(), entry.order.RemainingQuantity())
	delete(b.orders, orderID)
	b.logger.OrderCancelled(uint64(orderID), reason)
}

// ModifyOrder replaces an existing order's side/price/quantity while
// keeping its original type. This is a cancel followed by a fresh
// AddOrder — time priority is deliberately lost.
func (b *Orderbook) ModifyOrder(mod OrderModify) Trades {
	trades, cbs, ok := b.modifyOrderUnderLock(mod)
	if !ok {
		return nil
	}
	b.invokeCallbacks(trades, cbs)
	return trades
}

// modifyOrderUnderLock holds mu for the full cancel-then-add for the
// same reason addOrderUnderLock does: a panic out of the re-added
// order's validation must still release the lock.
func (b *Orderbook) modifyOrderUnderLock(mod OrderModify) (Trades, []func(Trades), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.orders[mod.OrderID]
	if !ok {
		return nil, nil, false
	}
	kind := entry.order.Type()
	b.cancelOrderLocked(mod.OrderID, "modify")
	trades := b.addOrderLocked(mod.toOrder(kind))
	return trades, b.callbacks, true
}

// GetOrderInfos returns a value snapshot of both ladders: bids
// descending by price, asks ascending, each level's quantity the sum
// of its resting orders' remaining quantity.
func (b *Orderbook) GetOrderInfos() OrderbookLevelInfos {
	b.mu.Lock()
	defer b.mu.Unlock()

	return OrderbookLevelInfos{
		Bids: levelInfosFrom(b.bids),
		Asks: levelInfosFrom(b.asks),
	}
}

func levelInfosFrom(lad *ladder) LevelInfos {
	levels := lad.sortedLevels()
	out := make(LevelInfos, 0, len(levels))
	for _, lvl := range levels {
		var qty Quantity
		for e := lvl.Queue.Front(); e != nil; e = e.Next() {
			qty += e.Value.(*Order).RemainingQuantity()
		}
		out = append(out, LevelInfo{Price: lvl.Price, Quantity: qty})
	}
	return out
}

func (b *Orderbook) ladderFor(side Side) *ladder {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// canMatch reports whether an order of side at price would cross the
// opposing best. A sell only ever crosses against resting bids, so the
// sell branch consults the bid ladder, not the ask ladder.
func (b *Orderbook) canMatch(side Side, price Price) bool {
	if side == Buy {
		bestAsk, ok := b.asks.bestPrice()
		if !ok {
			return false
		}
		return price >= bestAsk
	}
	bestBid, ok := b.bids.bestPrice()
	if !ok {
		return false
	}
	return price <= bestBid
}

// canFullyFill reports whether the opposing book holds enough resting
// quantity at prices no worse than price to fill quantity in full. The
// "skip levels strictly better than threshold" branch below can never
// trigger given sortedLevels' best-to-worst order, and is kept rather
// than deleted so that invariant is stated rather than assumed.
func (b *Orderbook) canFullyFill(side Side, price Price, quantity Quantity) bool {
	if !b.canMatch(side, price) {
		return false
	}

	opposing := b.asks
	if side == Sell {
		opposing = b.bids
	}
	threshold, _ := opposing.bestPrice()

	remaining := quantity
	for _, lvl := range opposing.sortedLevels() {
		// sortedLevels already walks best-to-worst starting at threshold,
		// so no level can ever be strictly better than it; kept explicit
		// rather than deleted so a re-implementer doesn't assume the
		// ordering guarantee without seeing it stated.
		if side == Buy && lvl.Price < threshold {
			continue
		}
		if side == Sell && lvl.Price > threshold {
			continue
		}
		if side == Buy && lvl.Price > price {
			continue
		}
		if side == Sell && lvl.Price < price {
			continue
		}

		total, ok := b.levels.totalQuantity(lvl.Price)
		if !ok {
			continue
		}
		if remaining <= total {
			return true
		}
		remaining -= total
	}
	return false
}

// matchOrders drains crossing quantity from both ladders' tops until
// they no longer cross, then sweeps any fill-and-kill order left
// resting at either new top.
func (b *Orderbook) matchOrders() Trades {
	var trades Trades

	for {
		if b.bids.empty() || b.asks.empty() {
			break
		}

		bidPrice, _ := b.bids.bestPrice()
		askPrice, _ := b.asks.bestPrice()
		if bidPrice < askPrice {
			break
		}

		bidQueue, _ := b.bids.queueAt(bidPrice)
		askQueue, _ := b.asks.queueAt(askPrice)

		for bidQueue.Len() > 0 && askQueue.Len() > 0 {
			bidElem := bidQueue.Front()
			askElem := askQueue.Front()
			bid := bidElem.Value.(*Order)
			ask := askElem.Value.(*Order)

			qty := minQuantity(bid.RemainingQuantity(), ask.RemainingQuantity())
			bid.Fill(qty)
			ask.Fill(qty)

			bidFilled := bid.IsFilled()
			askFilled := ask.IsFilled()
			b.levels.onMatch(bidPrice, qty, bidFilled)
			b.levels.onMatch(askPrice, qty, askFilled)

			trades = append(trades, Trade{
				Bid: TradeInfo{OrderID: bid.ID(), Price: bid.Price(), Quantity: qty},
				Ask: TradeInfo{OrderID: ask.ID(), Price: ask.Price(), Quantity: qty},
			})

			if bidFilled {
				bidQueue.Remove(bidElem)
				delete(b.orders, bid.ID())
			}
			if askFilled {
				askQueue.Remove(askElem)
				delete(b.orders, ask.ID())
			}
		}

		b.bids.dropEmptyTop(bidPrice)
		b.asks.dropEmptyTop(askPrice)
	}

	b.killResidualTop(b.bids)
	b.killResidualTop(b.asks)

	return trades
}

// killResidualTop cancels the head order of a ladder's best level if
// it is fill-and-kill, ensuring that order type never rests.
func (b *Orderbook) killResidualTop(lad *ladder) {
	price, ok := lad.bestPrice()
	if !ok {
		return
	}
	q, ok := lad.queueAt(price)
	if !ok || q.Len() == 0 {
		return
	}
	head := q.Front().Value.(*Order)
	if head.Type() == FillAndKill {
		b.cancelOrderLocked(head.ID(), "fill_and_kill_residual")
	}
}

func minQuantity(a, b Quantity) Quantity {
	if a < b {
		return a
	}
	return b
}

func validateOrder(order *Order) {
	if order.InitialQuantity() == 0 {
		panic(&InvalidOrderError{OrderID: order.ID(), Err: ErrZeroQuantity})
	}
	if order.Side() != Buy && order.Side() != Sell {
		panic(&InvalidOrderError{OrderID: order.ID(), Err: ErrInvalidSide})
	}
	switch order.Type() {
	case GoodTillCancel, FillAndKill, FillOrKill, GoodForDay, Market:
	default:
		panic(&InvalidOrderError{OrderID: order.ID(), Err: ErrInvalidType})
	}
}
