package orderbook

// TradeInfo is one side's view of an executed trade: the resting or
// incoming order's own id and price, and the quantity that changed
// hands on this side.
type TradeInfo struct {
	OrderID  OrderId
	Price    Price
	Quantity Quantity
}

// Trade pairs the bid-side and ask-side TradeInfo for a single match.
// Both sides report their own order's limit price. When the incoming
// order crossed with room to spare, its reported price differs from
// the resting order's price, which is the economic execution price.
type Trade struct {
	Bid TradeInfo
	Ask TradeInfo
}

// Trades is an ordered batch of trades produced by a single AddOrder.
type Trades = []Trade
