package orderbook

// OrderModify is the payload for ModifyOrder: a replacement side,
// price, and quantity for an existing order id.
type OrderModify struct {
	OrderID  OrderId
	Side     Side
	Price    Price
	Quantity Quantity
}

// toOrder builds the replacement order that ModifyOrder submits after
// cancelling the original. kind is the snapshotted type of the order
// being replaced — a modify never changes an order's type.
func (m OrderModify) toOrder(kind OrderType) *Order {
	return NewOrder(kind, m.OrderID, m.Side, m.Price, m.Quantity)
}
