package orderbook

import "fmt"

// Order is a resting order's mutable state. remain is only ever
// mutated through Fill so the 0 <= remain <= initial invariant can't
// be broken from outside the package.
type Order struct {
	id      OrderId
	side    Side
	kind    OrderType
	price   Price
	initial Quantity
	remain  Quantity
}

// NewOrder builds a resting order with initial == remaining == quantity.
func NewOrder(kind OrderType, id OrderId, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		id:      id,
		side:    side,
		kind:    kind,
		price:   price,
		initial: quantity,
		remain:  quantity,
	}
}

func (o *Order) ID() OrderId                 { return o.id }
func (o *Order) Side() Side                  { return o.side }
func (o *Order) Type() OrderType             { return o.kind }
func (o *Order) Price() Price                { return o.price }
func (o *Order) InitialQuantity() Quantity   { return o.initial }
func (o *Order) RemainingQuantity() Quantity { return o.remain }
func (o *Order) FilledQuantity() Quantity    { return o.initial - o.remain }
func (o *Order) IsFilled() bool              { return o.remain == 0 }

// OrderOverfillError is the typed panic value raised when the
// matching loop tries to fill an order for more than its remaining
// quantity. This can only happen if a book invariant has already been
// broken elsewhere, so it is a programming error, not a recoverable
// one — the operation aborts loudly rather than limping on with a
// corrupted order.
type OrderOverfillError struct {
	OrderID   OrderId
	Requested Quantity
	Remaining Quantity
}

func (e *OrderOverfillError) Error() string {
	return fmt.Sprintf("order %d cannot be filled for %d, only %d remaining",
		e.OrderID, e.Requested, e.Remaining)
}

// Fill decrements the remaining quantity by the given amount. It
// panics with an *OrderOverfillError if the requested amount exceeds
// what remains.
func (o *Order) Fill(quantity Quantity) {
	if quantity > o.remain {
		panic(&OrderOverfillError{OrderID: o.id, Requested: quantity, Remaining: o.remain})
	}
	o.remain -= quantity
}

// toGoodTillCancel rewrites a market order in place to a resting GTC
// order at the given price. Used only by the market-order admission
// rule in AddOrder.
func (o *Order) toGoodTillCancel(price Price) {
	o.kind = GoodTillCancel
	o.price = price
}
