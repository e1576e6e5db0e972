package orderbook

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
)

const (
	defaultMarketCloseHour   = 16
	defaultMarketCloseMinute = 0
	// closeSkew avoids spurious wakes a hair before the deadline.
	closeSkew = 100 * time.Millisecond
)

// pruner is the background task that expires good-for-day orders at
// market close. Go's sync.Cond has no timed wait, so the condition
// variable with a deadline this needs is implemented with the
// idiomatic Go substitute: a timer selected against a once-closed
// shutdown channel.
type pruner struct {
	book   *Orderbook
	hour   int
	minute int
	now    func() time.Time

	shutdown  chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newPruner(book *Orderbook, hour, minute int) *pruner {
	return &pruner{
		book:     book,
		hour:     hour,
		minute:   minute,
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (p *pruner) start() {
	go p.run()
}

// stop signals shutdown and blocks until the pruner goroutine has
// exited.
func (p *pruner) stop() {
	p.closeOnce.Do(func() { close(p.shutdown) })
	<-p.done
}

func (p *pruner) run() {
	defer close(p.done)
	for {
		deadline := p.nextDeadline()
		timer := time.NewTimer(time.Until(deadline))

		select {
		case <-p.shutdown:
			timer.Stop()
			return
		case <-timer.C:
		}

		p.pruneCycle()
	}
}

// nextDeadline computes the next instant of hour:minute:00.100 local
// time, today if still in the future, otherwise tomorrow.
func (p *pruner) nextDeadline() time.Time {
	now := p.now()
	deadline := time.Date(now.Year(), now.Month(), now.Day(), p.hour, p.minute, 0, 0, now.Location()).Add(closeSkew)
	if !deadline.After(now) {
		deadline = deadline.AddDate(0, 0, 1)
	}
	return deadline
}

// pruneCycle collects resting good-for-day order ids under the lock,
// releases it, then cancels each one through the normal CancelOrder
// path (itself a no-op if the order has since disappeared) so a large
// prune batch never holds the book lock for its whole duration.
func (p *pruner) pruneCycle() {
	var ids deque.Deque[OrderId]

	p.book.mu.Lock()
	for id, entry := range p.book.orders {
		if entry.order.Type() == GoodForDay {
			ids.PushBack(id)
		}
	}
	p.book.mu.Unlock()

	pruned := ids.Len()
	for ids.Len() > 0 {
		p.book.CancelOrder(ids.PopFront())
	}
	p.book.logger.DayOrdersPruned(pruned)
}
