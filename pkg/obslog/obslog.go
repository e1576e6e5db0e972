// Package obslog provides the order book's structured event logging: a
// set of fixed, book-specific events rather than a free-form message
// API. The book always knows exactly what happened (an order was
// added, rejected, matched, cancelled, or pruned), so every call site
// names the event and supplies its fields.
package obslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zapcore.Level so callers configuring a Logger don't
// need to import zap directly.
type Level = zapcore.Level

const (
	Debug Level = zapcore.DebugLevel
	Info  Level = zapcore.InfoLevel
	Warn  Level = zapcore.WarnLevel
	Error Level = zapcore.ErrorLevel
)

// Logger wraps zap.Logger with the order book's fixed event vocabulary.
// The zero value and a nil *Logger discard everything, like Nop; use
// New for a Logger that writes.
type Logger struct {
	z *zap.Logger
}

// New builds a production-style JSON logger at the given level.
func New(level Level) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	z, _ := cfg.Build()
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything. Engines default to
// this so logging stays entirely opt-in.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// ParseLevel parses a config-file level name ("debug", "info", "warn",
// "error") into a Level, so callers can go straight from
// config.BookConfig.LogLevel to New without importing zapcore.
func ParseLevel(s string) (Level, error) {
	return zapcore.ParseLevel(s)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.z == nil {
		return nil
	}
	return l.z.Sync()
}

func (l *Logger) log(level Level, msg string, fields ...zap.Field) {
	if l == nil || l.z == nil {
		return
	}
	if ce := l.z.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// OrderAdded records that an order was admitted and appended to a
// ladder (before matching runs).
func (l *Logger) OrderAdded(orderID uint64, side string, price int32, qty uint32) {
	l.log(Info, "order_added",
		zap.Uint64("order_id", orderID),
		zap.String("side", side),
		zap.Int32("price", price),
		zap.Uint32("qty", qty),
	)
}

// OrderRejected records an admission-time rejection (market with an
// empty opposing book, FAK that can't cross, FOK that can't fully
// fill, or a duplicate id).
func (l *Logger) OrderRejected(orderID uint64, reason string) {
	l.log(Warn, "order_rejected",
		zap.Uint64("order_id", orderID),
		zap.String("reason", reason),
	)
}

// OrderCancelled records a cancellation, whether client-initiated,
// from a fill-and-kill residual sweep, or from the day-order pruner.
func (l *Logger) OrderCancelled(orderID uint64, reason string) {
	l.log(Info, "order_cancelled",
		zap.Uint64("order_id", orderID),
		zap.String("reason", reason),
	)
}

// TradesMatched records the size of a trade batch produced by a
// single AddOrder call.
func (l *Logger) TradesMatched(count int, totalQty uint64) {
	if count == 0 {
		return
	}
	l.log(Info, "trades_matched",
		zap.Int("trade_count", count),
		zap.Uint64("total_qty", totalQty),
	)
}

// DayOrdersPruned records the outcome of one good-for-day expiry cycle.
func (l *Logger) DayOrdersPruned(count int) {
	l.log(Info, "day_orders_pruned", zap.Int("count", count))
}
